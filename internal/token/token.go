// Package token wraps the front end's token stream and extracts comments.
//
// The tokenizer itself is a minimal stand-in for the real external front end
// spec.md places out of scope (see SPEC_FULL.md §1): it recognizes enough of
// the source language's lexical grammar to drive the semantic builder, and
// nothing downstream depends on its internals beyond the Tag/Table contract
// here.
package token

// Tag identifies a lexical category. Values are grouped by kind (literals,
// keywords, punctuation); the numeric values carry no wire-format meaning.
type Tag uint8

const (
	Invalid Tag = iota
	EOF

	Identifier
	IntegerLiteral
	FloatLiteral
	StringLiteral
	CharLiteral

	// Keywords.
	KeywordConst
	KeywordVar
	KeywordPub
	KeywordFn
	KeywordReturn
	KeywordIf
	KeywordElse
	KeywordWhile
	KeywordFor
	KeywordSwitch
	KeywordBreak
	KeywordContinue
	KeywordStruct
	KeywordEnum
	KeywordUnion
	KeywordError
	KeywordComptime
	KeywordCatch
	KeywordTry
	KeywordOrelse
	KeywordExtern
	KeywordExport
	KeywordTrue
	KeywordFalse
	KeywordNull
	KeywordUndefined
	KeywordAnytype
	KeywordType
	KeywordTest

	// Punctuation / operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	Dot
	DotDot
	Ellipsis
	Equal
	EqualEqual
	BangEqual
	Less
	Greater
	LessEqual
	GreaterEqual
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Bang
	Tilde
	Arrow
	FatArrow
	At
	QuestionMark
)

// keywords maps the literal spelling to its Tag.
var keywords = map[string]Tag{
	"const":     KeywordConst,
	"var":       KeywordVar,
	"pub":       KeywordPub,
	"fn":        KeywordFn,
	"return":    KeywordReturn,
	"if":        KeywordIf,
	"else":      KeywordElse,
	"while":     KeywordWhile,
	"for":       KeywordFor,
	"switch":    KeywordSwitch,
	"break":     KeywordBreak,
	"continue":  KeywordContinue,
	"struct":    KeywordStruct,
	"enum":      KeywordEnum,
	"union":     KeywordUnion,
	"error":     KeywordError,
	"comptime":  KeywordComptime,
	"catch":     KeywordCatch,
	"try":       KeywordTry,
	"orelse":    KeywordOrelse,
	"extern":    KeywordExtern,
	"export":    KeywordExport,
	"true":      KeywordTrue,
	"false":     KeywordFalse,
	"null":      KeywordNull,
	"undefined": KeywordUndefined,
	"anytype":   KeywordAnytype,
	"type":      KeywordType,
	"test":      KeywordTest,
}

// LookupKeyword returns the keyword Tag for s, or (Identifier, false) if s is
// a plain identifier.
func LookupKeyword(s string) (Tag, bool) {
	tag, ok := keywords[s]
	return tag, ok
}

// Table is a columnar token store: parallel arrays indexed by token index.
// Row 0 is the first real token (there is no start-of-file marker); EOF is
// the last row.
type Table struct {
	Tags   []Tag
	Starts []uint32
	Ends   []uint32
}

// Len returns the number of tokens, including the trailing EOF row.
func (t *Table) Len() int { return len(t.Tags) }

// Text returns the source slice covered by token i.
func (t *Table) Text(source []byte, i int) string {
	if i < 0 || i >= len(t.Tags) {
		return ""
	}
	return string(source[t.Starts[i]:t.Ends[i]])
}

func (t *Table) push(tag Tag, start, end uint32) int {
	idx := len(t.Tags)
	t.Tags = append(t.Tags, tag)
	t.Starts = append(t.Starts, start)
	t.Ends = append(t.Ends, end)
	return idx
}
