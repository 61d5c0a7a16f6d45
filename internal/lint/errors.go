package lint

import "errors"

// ErrParseFailed wraps a failure in the front-end parse stage: the lexer or
// zsyntax parser panicked instead of degrading to an opaque node.
var ErrParseFailed = errors.New("lint: parse failed")

// ErrAnalysisFailed wraps a failure building the semantic model from an
// already-parsed tree.
var ErrAnalysisFailed = errors.New("lint: semantic analysis failed")

// ErrLintingFailed is returned by Result.CheckFailLevel when the run's most
// severe surviving violation meets or exceeds the configured fail level. It
// is not a run failure in the parse/analysis sense — the lint itself
// succeeded — it signals "the CLI should exit non-zero".
var ErrLintingFailed = errors.New("lint: violations at or above fail level")
