package diag

import (
	"fmt"
	"os"

	"missionreview/internal/source"
)

// Diagnostic is a finding resolved to original-file coordinates.
type Diagnostic struct {
	Path        string `json:"path" msgpack:"path"`
	StartLine   uint32 `json:"start_line" msgpack:"sl"`
	EndLine     uint32 `json:"end_line" msgpack:"el"`
	StartColumn uint32 `json:"start_column" msgpack:"sc"`
	EndColumn   uint32 `json:"end_column" msgpack:"ec"`
	Level       Level  `json:"level" msgpack:"lv"`
	Title       string `json:"title,omitempty" msgpack:"t"`
	Message     string `json:"message" msgpack:"m"`
}

// New builds a diagnostic for span in the processed text of the file at path.
//
// When m is non-nil and maps both span ends, the mapped positions are used.
// An empty span at offset 0 carries no location and skips the mapping.
// Otherwise the file at path is read and scanned character by character.
// An offset equal to the character count resolves to the end of the file;
// offsets beyond it stay at 1:1. The only error is a
// failure to read the file during that scan.
func New(m source.Mapping, path string, span source.Span, message string, level Level) (Diagnostic, error) {
	d := Diagnostic{
		Path:    path,
		Level:   level,
		Message: message,
	}
	if m != nil && !unanchored(span) {
		start, okStart := m.OriginalPosition(span.Start)
		end, okEnd := m.OriginalPosition(span.End)
		if okStart && okEnd {
			d.StartLine, d.StartColumn = atLeastOne(start.Line), atLeastOne(start.Col)
			d.EndLine, d.EndColumn = atLeastOne(end.Line), atLeastOne(end.Col)
			return d, nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Diagnostic{}, fmt.Errorf("failed to read %s for diagnostic position: %w", path, err)
	}
	start, end := scanPositions(string(content), span)
	d.StartLine, d.StartColumn = start.Line, start.Col
	d.EndLine, d.EndColumn = end.Line, end.Col
	return d, nil
}

// AtStart builds a diagnostic pinned to 1:1 of path without touching the
// file. Used for findings about a file as a whole, including missing ones.
func AtStart(path, message string, level Level) Diagnostic {
	return Diagnostic{
		Path:        path,
		StartLine:   1,
		EndLine:     1,
		StartColumn: 1,
		EndColumn:   1,
		Level:       level,
		Message:     message,
	}
}

// WithTitle returns a copy of d with Title set.
func (d Diagnostic) WithTitle(title string) Diagnostic {
	d.Title = title
	return d
}

// scanPositions walks text counting characters; the newline character itself
// belongs to the line it terminates.
func scanPositions(text string, span source.Span) (start, end source.LineCol) {
	start = source.LineCol{Line: 1, Col: 1}
	end = start
	line, col := uint32(1), uint32(1)
	var i uint32
	for _, r := range text {
		if i == span.Start {
			start = source.LineCol{Line: line, Col: col}
		}
		if i == span.End {
			end = source.LineCol{Line: line, Col: col}
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		i++
	}
	// конец файла тоже допустимая граница
	if i == span.Start {
		start = source.LineCol{Line: line, Col: col}
	}
	if i == span.End {
		end = source.LineCol{Line: line, Col: col}
	}
	return start, end
}

func unanchored(span source.Span) bool {
	return span.Start == 0 && span.End == 0
}

func atLeastOne(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	return v
}
