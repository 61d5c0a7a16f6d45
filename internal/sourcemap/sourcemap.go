// Package sourcemap resolves byte offsets into line/column positions and
// extracts line snippets for diagnostic rendering.
//
// Unlike the teacher's LSP-oriented version, positions here are 1-based in
// both line and column: the specification this package now serves mandates
// 1-based output, and nothing downstream talks to an LSP client that would
// want the 0-based convention instead.
package sourcemap

import (
	"bytes"
	"sort"
	"strings"

	"github.com/tinovyatkin/ziglint/internal/token"
)

// SourceMap provides byte-offset-to-position resolution and line-based
// snippet extraction over a single file's source.
type SourceMap struct {
	source []byte

	// lines holds each line's text without its line ending.
	lines []string

	// lineOffsets[i] is the byte offset where line i (0-indexed internally)
	// starts in source. Resolution binary-searches this slice.
	lineOffsets []int
}

// New builds a SourceMap from raw file content. Lines are split on \n;
// trailing \r is trimmed so CRLF files resolve the same as LF ones.
func New(source []byte) *SourceMap {
	rawLines := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(rawLines))
	lineOffsets := make([]int, len(rawLines))

	offset := 0
	for i, line := range rawLines {
		lineOffsets[i] = offset
		lines[i] = strings.TrimSuffix(string(line), "\r")
		offset += len(line) + 1
	}

	return &SourceMap{source: source, lines: lines, lineOffsets: lineOffsets}
}

// Source returns the raw source content. The returned slice must not be
// modified.
func (sm *SourceMap) Source() []byte { return sm.source }

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int { return len(sm.lines) }

// Line returns the text of the given 1-based line number, or "" if out of
// range.
func (sm *SourceMap) Line(line int) string {
	idx := line - 1
	if idx < 0 || idx >= len(sm.lines) {
		return ""
	}
	return sm.lines[idx]
}

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// PositionFor resolves a byte offset into a 1-based Position. Offsets past
// end of file clamp to the last line's end.
func (sm *SourceMap) PositionFor(offset uint32) Position {
	off := int(offset)
	if off < 0 {
		off = 0
	}
	// Find the last line whose start offset is <= off.
	lineIdx := sort.Search(len(sm.lineOffsets), func(i int) bool {
		return sm.lineOffsets[i] > off
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	if lineIdx >= len(sm.lineOffsets) {
		lineIdx = len(sm.lineOffsets) - 1
	}
	col := off - sm.lineOffsets[lineIdx] + 1
	return Position{Line: lineIdx + 1, Column: col}
}

// Snippet extracts 1-based lines [startLine, endLine] joined by newlines.
// The range is clamped to available lines; an empty or inverted range
// returns "".
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	s, e := startLine-1, endLine-1
	if s < 0 {
		s = 0
	}
	if e >= len(sm.lines) {
		e = len(sm.lines) - 1
	}
	if s > e || s >= len(sm.lines) {
		return ""
	}
	return strings.Join(sm.lines[s:e+1], "\n")
}

// SnippetAround extracts context lines around a 1-based target line, with
// before/after counts clamped to available lines.
func (sm *SourceMap) SnippetAround(line, before, after int) string {
	return sm.Snippet(line-before, line+after)
}

// Comment is a line comment located by 1-based line number alongside its
// byte span, so both line-oriented and offset-oriented callers are served.
type Comment struct {
	Line  int
	Start uint32
	End   uint32
	Text  string
	Doc   bool
}

// Comments extracts every line comment in the file, delegating the actual
// scan to token.Comments and annotating each with its resolved line number.
func (sm *SourceMap) Comments() []Comment {
	raw := token.Comments(sm.source)
	out := make([]Comment, len(raw))
	for i, c := range raw {
		out[i] = Comment{
			Line:  sm.PositionFor(c.Start).Line,
			Start: c.Start,
			End:   c.End,
			Text:  string(sm.source[c.Start:c.End]),
			Doc:   c.Doc,
		}
	}
	return out
}

// CommentsForLine returns the contiguous block of comments immediately
// preceding the given 1-based line, in source order. A blank line or a
// non-comment line (including a line with code before its comment) breaks
// the block.
func (sm *SourceMap) CommentsForLine(line int) []Comment {
	all := sm.Comments()
	byLine := make(map[int]Comment, len(all))
	for _, c := range all {
		byLine[c.Line] = c
	}

	var block []Comment
	for l := line - 1; l >= 1; l-- {
		text := sm.Line(l)
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			break
		}
		c, ok := byLine[l]
		if !ok || strings.TrimSpace(text) != c.Text {
			break
		}
		block = append(block, c)
	}
	for i, j := 0, len(block)-1; i < j; i, j = i+1, j-1 {
		block[i], block[j] = block[j], block[i]
	}
	return block
}
