package mission

import (
	"missionreview/internal/ast"
	"missionreview/internal/diag"
	"missionreview/internal/source"
)

// checkTime requires the editor start hour to sit one hour before
// synixe_start_time, the hour the mission actually starts.
func checkTime(r *reporter, sqm, cfg *document) {
	start, startSpan, ok := ast.GetNumber(cfg.doc, "synixe_start_time")
	if !ok {
		r.at(cfg, source.Span{}, diag.LevelError, "synixe_start_time is missing")
		return
	}
	if start < 0 || start > 24 {
		r.at(cfg, startSpan, diag.LevelError, "synixe_start_time is not between 0 and 24")
		return
	}
	intel := ast.GetClass(sqm.doc, "Mission.Intel")
	if intel == nil {
		r.at(sqm, source.Span{}, diag.LevelError, "Mission >> Intel is missing")
		return
	}
	hour, hourSpan, ok := ast.GetNumber(intel, "hour")
	if !ok {
		r.at(sqm, source.Span{}, diag.LevelError, "Mission >> Intel >> hour is missing")
		return
	}
	if hour+1 != start && (hour != 23 || start != 0) {
		r.at(sqm, hourSpan, diag.LevelError, "Mission >> Intel >> hour needs to be 1 hour before synixe_start_time")
	}
}
