package fix

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// UnifiedDiff renders fc's original and modified content as a unified diff
// for the `--fix-dry-run` CLI preview. go-gitdiff is a *parser*: it turns diff
// text into gitdiff.File/TextFragment/Line values for applying patches. We
// run it in the opposite direction here, building those same structures
// from two in-memory byte slices and printing them in the format the
// parser reads back, rather than pulling in a second, unrelated diff
// library just to print "-"/"+ " lines.
func UnifiedDiff(fc *FileChange) string {
	if !fc.HasChanges() {
		return ""
	}

	oldLines := splitLines(fc.OriginalContent)
	newLines := splitLines(fc.ModifiedContent)
	ops := diffLines(oldLines, newLines)
	fragments := buildFragments(ops, oldLines, newLines)
	if len(fragments) == 0 {
		return ""
	}

	file := &gitdiff.File{
		OldName:       fc.Path,
		NewName:       fc.Path,
		TextFragments: fragments,
	}

	return renderFile(file)
}

// lineOp tags one row of the line-level edit script.
type lineOp struct {
	op   gitdiff.LineOp
	text string
}

// diffLines computes a minimal edit script between old and new using the
// standard O(n*m) longest-common-subsequence table. Lint targets are
// single source files, not repository-scale diffs, so the quadratic table
// is never a practical concern.
func diffLines(oldLines, newLines []string) []lineOp {
	n, m := len(oldLines), len(newLines)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []lineOp
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case oldLines[i] == newLines[j]:
			ops = append(ops, lineOp{gitdiff.OpContext, oldLines[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, lineOp{gitdiff.OpDelete, oldLines[i]})
			i++
		default:
			ops = append(ops, lineOp{gitdiff.OpAdd, newLines[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, lineOp{gitdiff.OpDelete, oldLines[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, lineOp{gitdiff.OpAdd, newLines[j]})
	}
	return ops
}

// contextLines is the number of unchanged lines kept on either side of a
// change, matching `diff -u`'s default.
const contextLines = 3

// buildFragments groups ops into gitdiff.TextFragment hunks, collapsing
// runs of unchanged lines longer than 2*contextLines into separate hunks
// the way unified diff output does.
func buildFragments(ops []lineOp, oldLines, newLines []string) []*gitdiff.TextFragment {
	var fragments []*gitdiff.TextFragment
	var current *gitdiff.TextFragment
	oldPos, newPos := int64(1), int64(1)
	trailingContext := 0

	flush := func() {
		if current != nil {
			fragments = append(fragments, current)
			current = nil
		}
	}

	for idx, op := range ops {
		isChange := op.op != gitdiff.OpContext

		if current == nil {
			if !isChange {
				continue // skip leading context until a change starts a hunk
			}
			// Back up to include up to contextLines of preceding context.
			start := idx
			included := 0
			for start > 0 && included < contextLines && ops[start-1].op == gitdiff.OpContext {
				start--
				included++
			}
			current = &gitdiff.TextFragment{
				OldPosition: oldPos - int64(included),
				NewPosition: newPos - int64(included),
			}
			for k := start; k < idx; k++ {
				current.Lines = append(current.Lines, gitdiff.Line{Op: ops[k].op, Line: ops[k].text})
				current.OldLines++
				current.NewLines++
			}
			trailingContext = 0
		}

		current.Lines = append(current.Lines, gitdiff.Line{Op: op.op, Line: op.text})
		switch op.op {
		case gitdiff.OpContext:
			current.OldLines++
			current.NewLines++
			trailingContext++
			if trailingContext > 2*contextLines {
				// Trim the excess trailing context back to contextLines
				// and close this hunk; the rest becomes leading context
				// for whatever hunk comes next.
				excess := trailingContext - contextLines
				current.Lines = current.Lines[:len(current.Lines)-excess]
				current.OldLines -= int64(excess)
				current.NewLines -= int64(excess)
				flush()
			}
		case gitdiff.OpAdd:
			current.NewLines++
			current.LinesAdded++
			trailingContext = 0
		case gitdiff.OpDelete:
			current.OldLines++
			current.LinesDeleted++
			trailingContext = 0
		}

		switch op.op {
		case gitdiff.OpContext:
			oldPos++
			newPos++
		case gitdiff.OpAdd:
			newPos++
		case gitdiff.OpDelete:
			oldPos++
		}
	}
	if current != nil && trailingContext > contextLines {
		excess := trailingContext - contextLines
		current.Lines = current.Lines[:len(current.Lines)-excess]
		current.OldLines -= int64(excess)
		current.NewLines -= int64(excess)
	}
	flush()
	_ = oldLines
	_ = newLines
	return fragments
}

// renderFile prints file in unified diff text form: the same `---`/`+++`
// header and `@@ -a,b +c,d @@` hunk markers gitdiff.Parse reads back in.
func renderFile(file *gitdiff.File) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", file.OldName)
	fmt.Fprintf(&b, "+++ b/%s\n", file.NewName)
	for _, frag := range file.TextFragments {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines)
		for _, line := range frag.Lines {
			switch line.Op {
			case gitdiff.OpContext:
				b.WriteByte(' ')
			case gitdiff.OpAdd:
				b.WriteByte('+')
			case gitdiff.OpDelete:
				b.WriteByte('-')
			}
			b.WriteString(line.Line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// splitLines splits content into lines with their "\n" terminators
// removed (renderFile writes one back after each line). A single final
// newline does not produce an empty last line.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	normalized := bytes.TrimSuffix(content, []byte("\n"))
	parts := strings.Split(string(normalized), "\n")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}
