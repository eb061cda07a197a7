package rules

import (
	"fmt"
	"slices"

	"missionreview/internal/ast"
	"missionreview/internal/diag"
	"missionreview/internal/engine"
	"missionreview/internal/resolve"
	"missionreview/internal/source"
)

const (
	categoryTrigger  = "Trigger"
	categoryWaypoint = "Waypoint"

	waypointActivation = "WaypointActivation"
)

// activationConflicts lists (trigger type, waypoint type) pairs that never
// work together, with the message reported for them.
var activationConflicts = map[[2]string]string{
	{"ACTIVATE", "Hold"}: "HOLD waypoint is linked to a trigger that isn't SKIP WAYPOINT",
}

// Triggers checks triggers that activate waypoints. Entities are recorded
// during the walk; links are evaluated as they arrive, by which time every
// entity is known.
type Triggers struct {
	cfg      Config
	registry *resolve.Registry
	messages []diag.Diagnostic
}

func NewTriggers(cfg Config) *Triggers {
	return &Triggers{cfg: cfg, registry: resolve.New(categoryTrigger, categoryWaypoint)}
}

func (t *Triggers) Name() string { return "triggers" }

func (t *Triggers) OnEntity(ctx *engine.Context, entity *ast.Class, dataType string) error {
	switch dataType {
	case categoryTrigger:
		t.registry.Record(entity, categoryTrigger)
	case categoryWaypoint:
		t.registry.Record(entity, categoryWaypoint)
		if kind, span, ok := ast.GetString(entity, "type"); ok && kind == "Guard" {
			return t.add(ctx, span, diag.LevelError, "Guard waypoint is not allowed")
		}
	}
	return nil
}

func (t *Triggers) OnLink(ctx *engine.Context, link *ast.Class) error {
	if kind, _, ok := ast.GetString(ast.GetClass(link, "CustomData"), "type"); !ok || kind != waypointActivation {
		return nil
	}

	l := t.registry.Resolve(link)
	if missing := l.Unresolved(); len(missing) > 0 {
		return t.add(ctx, link.NameSpan, diag.LevelWarning,
			fmt.Sprintf("%s link references unknown entity id(s) %s", waypointActivation, joinIDs(missing)))
	}
	if !l.Complete() {
		return nil
	}

	trigger, waypoint, ok := resolve.Assign(l, categoryTrigger, categoryWaypoint)
	if !ok {
		return t.add(ctx, link.NameSpan, diag.LevelError,
			fmt.Sprintf("%s link does not connect to a trigger and waypoint", waypointActivation))
	}
	return t.checkPair(ctx, trigger.Class, waypoint.Class)
}

func (t *Triggers) checkPair(ctx *engine.Context, trigger, waypoint *ast.Class) error {
	attrs := ast.GetClass(trigger, "Attributes")

	serverOnly, span, ok := ast.GetNumber(attrs, "isServerOnly")
	if !ok || serverOnly == 0 {
		if err := t.add(ctx, span, diag.LevelError, "Trigger not set to server only"); err != nil {
			return err
		}
	}

	interval, span, ok := triggerInterval(attrs)
	if !ok || interval < t.cfg.TriggerMinInterval {
		msg := fmt.Sprintf("Trigger interval is set too low (below %g seconds)", t.cfg.TriggerMinInterval)
		if err := t.add(ctx, span, diag.LevelError, msg); err != nil {
			return err
		}
	}

	wpType, wpSpan, ok := ast.GetString(waypoint, "type")
	if !ok {
		return t.add(ctx, waypoint.NameSpan, diag.LevelError,
			fmt.Sprintf("%s link does not connect to a valid waypoint", waypointActivation))
	}
	if attrs == nil {
		return nil
	}
	trType, _, ok := ast.GetString(attrs, "type")
	if !ok {
		trType = "ACTIVATE"
	}
	if msg, bad := activationConflicts[[2]string{trType, wpType}]; bad {
		return t.add(ctx, wpSpan, diag.LevelError, msg)
	}
	return nil
}

// triggerInterval accepts both float and whole-number intervals.
func triggerInterval(attrs *ast.Class) (float64, source.Span, bool) {
	if f, span, ok := ast.GetFloat(attrs, "interval"); ok {
		return f, span, true
	}
	if n, span, ok := ast.GetNumber(attrs, "interval"); ok {
		return float64(n), span, true
	}
	return 0, source.Span{}, false
}

func (t *Triggers) add(ctx *engine.Context, span source.Span, level diag.Level, msg string) error {
	d, err := ctx.Diagnostic(span, level, msg)
	if err != nil {
		return err
	}
	t.messages = append(t.messages, d)
	return nil
}

func (t *Triggers) Finalize(*engine.Context) ([]diag.Diagnostic, error) {
	return slices.Clip(t.messages), nil
}

func joinIDs(ids []int32) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprint(id)
	}
	return out
}
