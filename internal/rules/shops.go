package rules

import (
	"fmt"
	"slices"

	"missionreview/internal/ast"
	"missionreview/internal/diag"
	"missionreview/internal/engine"
	"missionreview/internal/source"
)

// Shops counts objects carrying a shop custom attribute. Shops must not be
// simple objects and at least RequiredShops must exist.
type Shops struct {
	cfg      Config
	count    int
	messages []diag.Diagnostic
}

func NewShops(cfg Config) *Shops {
	return &Shops{cfg: cfg}
}

func (s *Shops) Name() string { return "shops" }

func (s *Shops) OnEntity(ctx *engine.Context, entity *ast.Class, dataType string) error {
	if dataType != "Object" {
		return nil
	}
	custom := ast.GetClass(entity, "CustomAttributes")
	if custom == nil {
		return nil
	}
	for _, n := range custom.Children {
		attr, ok := n.(*ast.Class)
		if !ok {
			continue
		}
		property, _, ok := ast.GetString(attr, "property")
		if !ok || !slices.Contains(s.cfg.ShopProperties, property) {
			continue
		}
		s.count++
		if simple, span, ok := ast.GetNumber(ast.GetClass(entity, "Attributes"), "createAsSimpleObject"); ok && simple == 1 {
			d, err := ctx.Diagnostic(span, diag.LevelError, "shops must not be simple objects")
			if err != nil {
				return err
			}
			s.messages = append(s.messages, d)
		}
	}
	return nil
}

func (s *Shops) Finalize(ctx *engine.Context) ([]diag.Diagnostic, error) {
	out := s.messages
	var msg string
	switch {
	case s.count == 0:
		msg = "No shops found"
	case s.count < s.cfg.RequiredShops:
		msg = fmt.Sprintf("Not enough shops found, at least %d are required", s.cfg.RequiredShops)
	default:
		return out, nil
	}
	d, err := ctx.Diagnostic(source.Span{}, diag.LevelError, msg)
	if err != nil {
		return nil, err
	}
	return append(out, d), nil
}
