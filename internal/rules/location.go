package rules

// Position is a single point in a source file, 1-based in both line and
// column as the output format requires.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column,omitempty"`
}

// Location is a range in a source file. Start is inclusive, End is
// exclusive: it points to the first position after the covered text, the
// same convention the teacher's Location used under LSP semantics, just
// shifted onto a 1-based coordinate system.
type Location struct {
	File  string   `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewFileLocation creates a location for file-level issues with no specific
// line. 0 is not a valid 1-based line number, so it doubles as the
// file-level sentinel without needing a negative value.
func NewFileLocation(file string) Location {
	return Location{File: file, Start: Position{Line: 0, Column: 0}, End: Position{Line: 0, Column: 0}}
}

// NewLineLocation creates a point location at the start of a 1-based line.
func NewLineLocation(file string, line int) Location {
	return Location{
		File:  file,
		Start: Position{Line: line, Column: 1},
		End:   Position{Line: 0, Column: 0},
	}
}

// NewRangeLocation creates a location spanning the given 1-based
// line/column range.
func NewRangeLocation(file string, startLine, startCol, endLine, endCol int) Location {
	return Location{
		File:  file,
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

// IsFileLevel reports whether this is a file-level location with no
// specific line.
func (l Location) IsFileLevel() bool {
	return l.Start.Line == 0
}

// IsPointLocation reports whether this location has no end range.
func (l Location) IsPointLocation() bool {
	return l.End.Line == 0 || (l.End.Line == l.Start.Line && l.End.Column == l.Start.Column)
}
