package rules

import (
	"missionreview/internal/ast"
	"missionreview/internal/diag"
	"missionreview/internal/engine"
	"missionreview/internal/source"
)

// Presence watches for the first entity of a given role and type.
// A forbidding rule reports the first match; a requiring rule reports when
// nothing matched. Later matches never change the outcome.
type Presence struct {
	name     string
	dataType string
	class    string
	forbid   bool
	message  string

	seen bool
	span source.Span
}

// NewForbidden reports message once if any dataType entity of class exists.
func NewForbidden(f ForbiddenObject) *Presence {
	return &Presence{name: f.Name, dataType: f.DataType, class: f.Class, forbid: true, message: f.Message}
}

// NewRequired reports message if no dataType entity of class exists.
func NewRequired(name, dataType, class, message string) *Presence {
	return &Presence{name: name, dataType: dataType, class: class, message: message}
}

// NewSpectator requires the spectator screen object.
func NewSpectator(cfg Config) *Presence {
	return NewRequired("spectator", "Object", cfg.SpectatorClass, "No spectator screen found")
}

func (p *Presence) Name() string { return p.name }

func (p *Presence) OnEntity(_ *engine.Context, entity *ast.Class, dataType string) error {
	if p.seen || dataType != p.dataType {
		return nil
	}
	class, span, ok := ast.GetString(entity, "type")
	if !ok || class != p.class {
		return nil
	}
	p.seen = true
	p.span = span
	return nil
}

func (p *Presence) Finalize(ctx *engine.Context) ([]diag.Diagnostic, error) {
	switch {
	case p.forbid && p.seen:
		d, err := ctx.Diagnostic(p.span, diag.LevelError, p.message)
		if err != nil {
			return nil, err
		}
		return []diag.Diagnostic{d}, nil
	case !p.forbid && !p.seen:
		d, err := ctx.Diagnostic(source.Span{}, diag.LevelError, p.message)
		if err != nil {
			return nil, err
		}
		return []diag.Diagnostic{d}, nil
	}
	return nil, nil
}
