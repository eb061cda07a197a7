package engine

import (
	"missionreview/internal/diag"
	"missionreview/internal/source"
)

// Context is the run-scoped, read-only information rules need to build
// diagnostics.
type Context struct {
	// Dir is the mission directory under validation.
	Dir string
	// Path is the file the document was parsed from.
	Path string
	// Mapping resolves processed offsets; nil forces the file scan fallback.
	Mapping source.Mapping
}

// Diagnostic builds a diagnostic for span in the current document.
func (c *Context) Diagnostic(span source.Span, level diag.Level, message string) (diag.Diagnostic, error) {
	return diag.New(c.Mapping, c.Path, span, message, level)
}
