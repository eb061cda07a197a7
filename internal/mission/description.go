package mission

import (
	"strings"

	"missionreview/internal/ast"
	"missionreview/internal/diag"
	"missionreview/internal/source"
)

// checkDescription verifies the template fields every mission must fill in.
func checkDescription(r *reporter, d *document) {
	found := map[string]bool{}
	for _, n := range d.doc.Children {
		e, ok := n.(*ast.Entry)
		if !ok {
			continue
		}
		switch e.Name {
		case "OnLoadName", "OnLoadMission", "author":
		default:
			continue
		}
		found[e.Name] = true

		s, ok := e.Value.(*ast.String)
		if !ok {
			r.at(d, e.Value.ValueSpan(), diag.LevelError, e.Name+" is not a string")
			continue
		}
		switch e.Name {
		case "OnLoadName":
			if s.Value == "MISSION NAME" {
				r.at(d, s.Span, diag.LevelError, "OnLoadName is not set")
			}
		case "OnLoadMission":
			if s.Value == "MISSION SUMMARY" {
				r.at(d, s.Span, diag.LevelError, "OnLoadMission is not set")
			}
			if strings.HasSuffix(s.Value, ".") {
				r.at(d, s.Span, diag.LevelWarning, "OnLoadMission ends with a period")
			} else if strings.Contains(s.Value, ". ") {
				r.at(d, s.Span, diag.LevelWarning, "OnLoadMission should be a single sentence")
			}
		case "author":
			if strings.HasPrefix(s.Value, "YOUR NAME") {
				r.at(d, s.Span, diag.LevelError, "author is not set")
			}
		}
	}

	for _, name := range []string{"OnLoadName", "OnLoadMission", "author"} {
		if !found[name] {
			r.at(d, source.Span{}, diag.LevelError, name+" is missing")
		}
	}
}
