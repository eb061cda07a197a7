package diagfmt

import (
	"encoding/json"
	"io"

	"missionreview/internal/diag"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Level    string       `json:"level"`
	Title    string       `json:"title,omitempty"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Notices     int              `json:"notices"`
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for _, d := range items[:maxItems] {
		diagnostics = append(diagnostics, DiagnosticJSON{
			Level:   d.Level.String(),
			Title:   d.Title,
			Message: d.Message,
			Location: LocationJSON{
				File:      formatPath(d.Path, opts.BaseDir, opts.PathMode),
				StartLine: d.StartLine,
				StartCol:  d.StartColumn,
				EndLine:   d.EndLine,
				EndCol:    d.EndColumn,
			},
		})
	}

	counts := bag.Count()
	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(items),
		Errors:      counts[diag.LevelError],
		Warnings:    counts[diag.LevelWarning],
		Notices:     counts[diag.LevelNotice],
	}
}

// JSON форматирует диагностики в JSON
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, opts))
}
