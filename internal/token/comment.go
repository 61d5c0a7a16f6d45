package token

// Comment is a single line comment, recorded by byte span rather than by
// line number so callers can resolve it through whichever span/location
// machinery they already use.
type Comment struct {
	Start uint32
	End   uint32
	// Doc is true for `///` and `//!` comments and false for plain `//`
	// comments.
	Doc bool
}

// Comments scans source independently of the token stream, the same way the
// teacher's sourcemap does: Lex never emits comment tokens at all, so a
// second byte-level pass looking only for `//` outside of string and char
// literals is simpler than threading trivia through the token table.
//
// The returned slice is sorted by Start and non-overlapping, since a comment
// always runs to end-of-line and lines cannot nest.
func Comments(source []byte) []Comment {
	var out []Comment
	var i int
	n := len(source)
	inString := false
	inChar := false
	for i < n {
		c := source[i]
		switch {
		case inString:
			if c == '\\' {
				i += 2
				continue
			}
			if c == '"' {
				inString = false
			}
			i++
		case inChar:
			if c == '\\' {
				i += 2
				continue
			}
			if c == '\'' {
				inChar = false
			}
			i++
		case c == '"':
			inString = true
			i++
		case c == '\'':
			inChar = true
			i++
		case c == '/' && i+1 < n && source[i+1] == '/':
			start := uint32(i)
			doc := (i+2 < n && source[i+2] == '/') || (i+2 < n && source[i+2] == '!')
			for i < n && source[i] != '\n' {
				i++
			}
			out = append(out, Comment{Start: start, End: uint32(i), Doc: doc})
		default:
			i++
		}
	}
	return out
}
