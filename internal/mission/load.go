package mission

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"missionreview/internal/ast"
	"missionreview/internal/diag"
	"missionreview/internal/parser"
	"missionreview/internal/preproc"
	"missionreview/internal/source"
)

// rapMagic starts every binarized config file.
var rapMagic = []byte("\x00raP")

// document is a preprocessed and parsed file.
type document struct {
	path      string
	processed *preproc.Processed
	doc       *ast.Document
}

// reporter accumulates diagnostics and keeps the first tool failure.
// Once err is set further additions are dropped.
type reporter struct {
	out []diag.Diagnostic
	err error
}

func (r *reporter) add(m source.Mapping, path string, span source.Span, level diag.Level, msg string) {
	if r.err != nil {
		return
	}
	d, err := diag.New(m, path, span, msg, level)
	if err != nil {
		r.err = err
		return
	}
	r.out = append(r.out, d)
}

// at reports against a loaded document.
func (r *reporter) at(d *document, span source.Span, level diag.Level, msg string) {
	r.add(d.processed, d.path, span, level, msg)
}

func (r *reporter) whole(path string, level diag.Level, msg string) {
	if r.err != nil {
		return
	}
	r.out = append(r.out, diag.AtStart(path, msg, level))
}

func (r *reporter) result() ([]diag.Diagnostic, error) {
	return r.out, r.err
}

// load reads, preprocesses and parses path. Faults in the file itself are
// reported as diagnostics; ok is false when any were found.
func (r *reporter) load(fset *source.FileSet, path, label string) (*document, bool) {
	before := len(r.out)
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.whole(path, diag.LevelError, fmt.Sprintf("`%s` is missing", label))
		return nil, false
	case err != nil:
		r.whole(path, diag.LevelError, fmt.Sprintf("`%s` is invalid: %v", label, err))
		return nil, false
	case binarized(raw):
		r.whole(path, diag.LevelError, fmt.Sprintf("`%s` is binarized or invalid", label))
		return nil, false
	}

	processed, err := preproc.Run(fset, path, preproc.Options{})
	if err != nil {
		var perr *preproc.Error
		if errors.As(err, &perr) {
			d := diag.AtStart(path, fmt.Sprintf("`%s` failed to process: %s", label, perr.Msg), diag.LevelError)
			if perr.Pos.Line > 0 {
				d.StartLine, d.EndLine = perr.Pos.Line, perr.Pos.Line
				d.StartColumn, d.EndColumn = perr.Pos.Col, perr.Pos.Col
			}
			if perr.Pos.Path != "" {
				d.Path = perr.Pos.Path
			}
			r.out = append(r.out, d)
			return nil, false
		}
		r.whole(path, diag.LevelError, fmt.Sprintf("`%s` failed to process: %v", label, err))
		return nil, false
	}

	res := parser.ParseFile(fset.Get(processed.File), parser.Options{MaxErrors: 20})
	for _, e := range res.Errors {
		r.add(processed, path, e.Span, diag.LevelError, fmt.Sprintf("`%s` failed to process: %s", label, e.Msg))
	}
	if len(r.out) > before || r.err != nil {
		return nil, false
	}
	return &document{path: path, processed: processed, doc: res.Doc}, true
}

func binarized(raw []byte) bool {
	return bytes.HasPrefix(raw, rapMagic) || !utf8.Valid(raw)
}
