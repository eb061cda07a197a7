package ast

import (
	"missionreview/internal/source"
)

// Node is a Class or an Entry.
type Node interface {
	NodeName() string
	NodeSpan() source.Span
	node()
}

// Container is anything with ordered child nodes.
type Container interface {
	Nodes() []Node
}

// Document is the root of a parsed file.
type Document struct {
	Children []Node
	Span     source.Span
}

// Class is a named block: class Name : Parent { ... };
type Class struct {
	Name     string
	Parent   string // empty when there is no inheritance
	Children []Node
	// External is set for forward declarations (class Name;) which have no body.
	External bool
	// Deleted is set for "delete Name;" statements.
	Deleted  bool
	NameSpan source.Span
	Span     source.Span
}

// Entry is a property assignment: name = value; or name[] = {...};
type Entry struct {
	Name     string
	Value    Value
	Append   bool // name[] += {...}
	NameSpan source.Span
	Span     source.Span
}

func (d *Document) Nodes() []Node {
	if d == nil {
		return nil
	}
	return d.Children
}

func (c *Class) Nodes() []Node {
	if c == nil {
		return nil
	}
	return c.Children
}

func (c *Class) NodeName() string { return c.Name }

func (c *Class) NodeSpan() source.Span { return c.Span }

func (*Class) node() {}

func (e *Entry) NodeName() string { return e.Name }

func (e *Entry) NodeSpan() source.Span { return e.Span }

func (*Entry) node() {}
