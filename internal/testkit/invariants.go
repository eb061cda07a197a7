package testkit

import (
	"fmt"

	"missionreview/internal/ast"
	"missionreview/internal/source"
)

// CheckSpanInvariants validates the spans of a parsed document:
// the document span covers the whole file, every node lies inside its
// parent, siblings do not overlap and come in source order, and names and
// values lie inside the node that owns them.
func CheckSpanInvariants(doc *ast.Document, sf *source.File) error {
	if doc == nil || sf == nil {
		return fmt.Errorf("nil document or file")
	}
	if doc.Span.File != sf.ID {
		return fmt.Errorf("document span points to different file id: got=%d want=%d", doc.Span.File, sf.ID)
	}
	if doc.Span.Start != 0 || doc.Span.End != sf.Len {
		return fmt.Errorf("document span %v does not cover the file (len %d)", doc.Span, sf.Len)
	}
	return checkNodes(doc.Children, doc.Span, sf.ID)
}

func checkNodes(nodes []ast.Node, parent source.Span, id source.FileID) error {
	var prevEnd uint32
	for i, n := range nodes {
		sp := n.NodeSpan()
		if sp.File != id {
			return fmt.Errorf("%s: span file mismatch: got=%d want=%d", n.NodeName(), sp.File, id)
		}
		if sp.Empty() {
			return fmt.Errorf("%s: empty span %v", n.NodeName(), sp)
		}
		if !inside(sp, parent) {
			return fmt.Errorf("%s: span %v is outside parent %v", n.NodeName(), sp, parent)
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("%s: span %v overlaps previous sibling ending at %d", n.NodeName(), sp, prevEnd)
		}
		prevEnd = sp.End

		switch n := n.(type) {
		case *ast.Class:
			if !inside(n.NameSpan, sp) {
				return fmt.Errorf("class %s: name span %v outside %v", n.Name, n.NameSpan, sp)
			}
			if err := checkNodes(n.Children, sp, id); err != nil {
				return err
			}
		case *ast.Entry:
			if !inside(n.NameSpan, sp) {
				return fmt.Errorf("entry %s: name span %v outside %v", n.Name, n.NameSpan, sp)
			}
			if n.Value != nil && !inside(n.Value.ValueSpan(), sp) {
				return fmt.Errorf("entry %s: value span %v outside %v", n.Name, n.Value.ValueSpan(), sp)
			}
		}
	}
	return nil
}

func inside(inner, outer source.Span) bool {
	return inner.Start >= outer.Start && inner.End <= outer.End
}
