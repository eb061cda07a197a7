// Package resolve keeps per-category registries of entities keyed by their
// integer id and resolves link endpoints against them.
package resolve

import (
	"missionreview/internal/ast"
	"missionreview/internal/source"
)

// Entity is a recorded entity.
type Entity struct {
	ID       int32
	Category string
	Class    *ast.Class
	IDSpan   source.Span
}

// Registry maps ids to entities, one table per category. Lookups consult the
// categories in the order given to New; within a category the first recorded
// entity for an id wins.
type Registry struct {
	categories []string
	tables     map[string]map[int32]Entity
}

func New(categories ...string) *Registry {
	tables := make(map[string]map[int32]Entity, len(categories))
	for _, c := range categories {
		tables[c] = make(map[int32]Entity)
	}
	return &Registry{categories: categories, tables: tables}
}

// Record stores entity under category when the category is tracked and the
// entity carries an integer id. It reports whether the entity was stored.
func (r *Registry) Record(entity *ast.Class, category string) bool {
	table, ok := r.tables[category]
	if !ok {
		return false
	}
	id, span, ok := ast.GetNumber(entity, "id")
	if !ok {
		return false
	}
	if _, dup := table[id]; dup {
		return false
	}
	table[id] = Entity{ID: id, Category: category, Class: entity, IDSpan: span}
	return true
}

// Lookup finds the entity for id, checking categories in priority order.
func (r *Registry) Lookup(id int32) (Entity, bool) {
	for _, c := range r.categories {
		if e, ok := r.tables[c][id]; ok {
			return e, true
		}
	}
	return Entity{}, false
}

// Len is the number of entities recorded in category.
func (r *Registry) Len(category string) int {
	return len(r.tables[category])
}

// Endpoint is one side of a link.
type Endpoint struct {
	Ref      int32
	Present  bool // the link has the reference entry
	Resolved bool
	Entity   Entity
}

// Link is a link with both endpoints looked up.
type Link struct {
	Class *ast.Class
	From  Endpoint // item0
	To    Endpoint // item1
}

// Complete reports whether both endpoints exist and resolved.
func (l Link) Complete() bool {
	return l.From.Resolved && l.To.Resolved
}

// Unresolved lists the references that are present but match no entity.
func (l Link) Unresolved() []int32 {
	var out []int32
	for _, ep := range []Endpoint{l.From, l.To} {
		if ep.Present && !ep.Resolved {
			out = append(out, ep.Ref)
		}
	}
	return out
}

// Resolve reads item0 and item1 from link and looks both up.
func (r *Registry) Resolve(link *ast.Class) Link {
	return Link{Class: link, From: r.endpoint(link, "item0"), To: r.endpoint(link, "item1")}
}

func (r *Registry) endpoint(link *ast.Class, name string) Endpoint {
	ref, _, ok := ast.GetNumber(link, name)
	if !ok {
		return Endpoint{}
	}
	e, found := r.Lookup(ref)
	return Endpoint{Ref: ref, Present: true, Resolved: found, Entity: e}
}

// Assign orders a complete link into (source, target) roles by category.
// ok is false when the link is incomplete or both ends share one category,
// in which case no assignment is possible.
func Assign(l Link, sourceCategory, targetCategory string) (src, tgt Entity, ok bool) {
	if !l.Complete() {
		return Entity{}, Entity{}, false
	}
	a, b := l.From.Entity, l.To.Entity
	switch {
	case a.Category == sourceCategory && b.Category == targetCategory:
		return a, b, true
	case b.Category == sourceCategory && a.Category == targetCategory:
		return b, a, true
	}
	return Entity{}, Entity{}, false
}
