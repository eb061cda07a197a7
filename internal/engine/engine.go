package engine

import (
	"errors"
	"fmt"
	"slices"

	"missionreview/internal/ast"
	"missionreview/internal/diag"
)

// ErrMissingEntities is returned when the document has no entity root.
// No rule runs in that case.
var ErrMissingEntities = errors.New("document has no entities container")

// Layout names the structural parts of a document the engine walks.
type Layout struct {
	EntitiesPath  string   // dotted path to the root entity container
	LinksPath     string   // dotted path to the optional links container
	Nested        string   // name of the entity container inside composites
	Discriminator string   // string entry naming an entity's role
	Composite     []string // roles that contain nested entities
}

// DefaultLayout is the layout of an Arma 3 mission.sqm.
func DefaultLayout() Layout {
	return Layout{
		EntitiesPath:  "Mission.Entities",
		LinksPath:     "Mission.Connections.Links",
		Nested:        "Entities",
		Discriminator: "dataType",
		Composite:     []string{"Group", "Layer"},
	}
}

// Engine runs a fixed layout over documents.
type Engine struct {
	layout Layout
}

func New(layout Layout) *Engine {
	return &Engine{layout: layout}
}

// Run executes all phases with the default layout.
func Run(ctx *Context, doc *ast.Document, rules []Rule) ([]diag.Diagnostic, error) {
	return New(DefaultLayout()).Run(ctx, doc, rules)
}

// Run executes the entity, link and finalize phases over doc. An error from
// any rule callback aborts the run.
func (e *Engine) Run(ctx *Context, doc *ast.Document, rules []Rule) ([]diag.Diagnostic, error) {
	root := ast.GetClass(doc, e.layout.EntitiesPath)
	if root == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntities, e.layout.EntitiesPath)
	}

	var entityRules []EntityRule
	var linkRules []LinkRule
	for _, r := range rules {
		if er, ok := r.(EntityRule); ok {
			entityRules = append(entityRules, er)
		}
		if lr, ok := r.(LinkRule); ok {
			linkRules = append(linkRules, lr)
		}
	}

	if err := e.walk(ctx, root, entityRules); err != nil {
		return nil, err
	}

	if links := ast.GetClass(doc, e.layout.LinksPath); links != nil && len(linkRules) > 0 {
		for _, n := range links.Children {
			link, ok := n.(*ast.Class)
			if !ok {
				continue
			}
			for _, r := range linkRules {
				if err := r.OnLink(ctx, link); err != nil {
					return nil, fmt.Errorf("rule %s: link %s: %w", r.Name(), link.Name, err)
				}
			}
		}
	}

	var out []diag.Diagnostic
	for _, r := range rules {
		ds, err := r.Finalize(ctx)
		if err != nil {
			return nil, fmt.Errorf("rule %s: finalize: %w", r.Name(), err)
		}
		out = append(out, ds...)
	}
	return out, nil
}

func (e *Engine) walk(ctx *Context, container *ast.Class, rules []EntityRule) error {
	for _, n := range container.Children {
		entity, ok := n.(*ast.Class)
		if !ok {
			continue
		}
		dataType, _, ok := ast.GetString(entity, e.layout.Discriminator)
		if !ok {
			continue
		}
		for _, r := range rules {
			if err := r.OnEntity(ctx, entity, dataType); err != nil {
				return fmt.Errorf("rule %s: entity %s: %w", r.Name(), entity.Name, err)
			}
		}
		if !slices.Contains(e.layout.Composite, dataType) {
			continue
		}
		if nested := ast.GetClass(entity, e.layout.Nested); nested != nil {
			if err := e.walk(ctx, nested, rules); err != nil {
				return err
			}
		}
	}
	return nil
}
