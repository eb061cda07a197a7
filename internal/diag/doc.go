// Package diag defines the diagnostic model shared by the mission checks.
//
// A Diagnostic is a fully resolved finding: path, 1-based start/end
// line and column, a Level, an optional title and a message. Producers work in
// processed-text spans; New turns a span into positions, through a
// source.Mapping when one is available and by scanning the file on disk
// otherwise.
//
// Diagnostics are serialised as one "||"-separated record per line (see
// Record). The field order is consumed by the CI annotator and must not change.
//
// Package diag does no rendering; formatters live in internal/diagfmt.
package diag
