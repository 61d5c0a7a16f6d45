// Package discovery resolves CLI path arguments into a concrete list of
// Zig source files to lint: explicit files are kept as-is, directories are
// walked recursively for *.zig files, and bare glob patterns are expanded
// with doublestar. This is CLI/front-end boundary functionality
// (spec.md §1 explicitly places "filesystem traversal" out of the core's
// scope), grounded directly on tally's own internal/discovery package of
// the same shape.
package discovery

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every Zig source file.
const DefaultPattern = "**/*.zig"

// Options configures file discovery.
type Options struct {
	// ExcludePatterns are doublestar glob patterns excluded from results,
	// matched against each file's forward-slash-normalized absolute path
	// and against its base name. This is
	// the in-memory shape of spec.md §6's "ignore-patterns list... used
	// by the front-end, not the core" (config.Config.Ignore).
	ExcludePatterns []string
}

// Discover resolves inputs (file paths, directories, or glob patterns)
// into a deduplicated, sorted list of absolute Zig source file paths.
func Discover(inputs []string, opts Options) ([]string, error) {
	seen := make(map[string]bool)
	var results []string

	for _, input := range inputs {
		paths, err := discoverInput(input)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			abs, err := filepath.Abs(p)
			if err != nil {
				abs = p
			}
			if excluded(abs, opts.ExcludePatterns) {
				continue
			}
			if !seen[abs] {
				seen[abs] = true
				results = append(results, abs)
			}
		}
	}

	slices.SortFunc(results, cmp.Compare)
	return results, nil
}

func discoverInput(input string) ([]string, error) {
	info, err := os.Stat(input)
	switch {
	case err == nil && info.IsDir():
		return walkDir(input)
	case err == nil:
		return []string{input}, nil
	default:
		// Not a plain path; try it as a glob pattern.
		normalized := filepath.ToSlash(input)
		matches, globErr := doublestar.FilepathGlob(normalized, doublestar.WithFilesOnly())
		if globErr != nil {
			return nil, globErr
		}
		return matches, nil
	}
}

func walkDir(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".zig") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

// excluded reports whether path matches any pattern in patterns.
// doublestar.Match expects forward slashes, so path is normalized first.
func excluded(path string, patterns []string) bool {
	normalized := filepath.ToSlash(path)
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(filepath.ToSlash(pattern), normalized); matched {
			return true
		}
		// Also allow matching against the base name, so "vendor/**"-style
		// patterns aren't required just to skip "generated.zig" anywhere.
		if matched, _ := doublestar.Match(filepath.ToSlash(pattern), filepath.Base(path)); matched {
			return true
		}
	}
	return false
}
