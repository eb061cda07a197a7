package ast

import (
	"strings"

	"fortio.org/safecast"

	"missionreview/internal/source"
)

// Lookups never fail loudly: a missing segment, a name bound to the wrong node
// kind, or a value of the wrong variant all read as "absent".

// GetClass walks a dot-separated path of class names from root.
// Each segment picks the first direct child Class with that name.
func GetClass(root Container, path string) *Class {
	if root == nil || path == "" {
		return nil
	}
	cur := root
	var found *Class
	for _, seg := range strings.Split(path, ".") {
		found = childClass(cur, seg)
		if found == nil {
			return nil
		}
		cur = found
	}
	return found
}

// GetEntry returns the first direct child Entry called name.
func GetEntry(c Container, name string) *Entry {
	if c == nil {
		return nil
	}
	for _, n := range c.Nodes() {
		if e, ok := n.(*Entry); ok && e.Name == name {
			return e
		}
	}
	return nil
}

// GetNumber returns the value of a direct integer entry that fits 32 bits.
func GetNumber(c Container, name string) (int32, source.Span, bool) {
	e := GetEntry(c, name)
	if e == nil {
		return 0, source.Span{}, false
	}
	n, ok := e.Value.(*Number)
	if !ok {
		return 0, source.Span{}, false
	}
	v, err := safecast.Conv[int32](n.Value)
	if err != nil {
		return 0, source.Span{}, false
	}
	return v, n.Span, true
}

// GetFloat returns the value of a direct entry holding a Float literal.
func GetFloat(c Container, name string) (float64, source.Span, bool) {
	e := GetEntry(c, name)
	if e == nil {
		return 0, source.Span{}, false
	}
	f, ok := e.Value.(*Float)
	if !ok {
		return 0, source.Span{}, false
	}
	return f.Value, f.Span, true
}

// GetString returns the value of a direct entry holding a quoted string.
func GetString(c Container, name string) (string, source.Span, bool) {
	e := GetEntry(c, name)
	if e == nil {
		return "", source.Span{}, false
	}
	s, ok := e.Value.(*String)
	if !ok {
		return "", source.Span{}, false
	}
	return s.Value, s.Span, true
}

func childClass(c Container, name string) *Class {
	for _, n := range c.Nodes() {
		if cl, ok := n.(*Class); ok && cl.Name == name {
			return cl
		}
	}
	return nil
}
