package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"missionreview/internal/ast"
	"missionreview/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Name     string          `json:"name,omitempty"`
	Parent   string          `json:"parent,omitempty"`
	Value    string          `json:"value,omitempty"`
	Kind     string          `json:"kind,omitempty"`
	Start    source.LineCol  `json:"start"`
	End      source.LineCol  `json:"end"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatDocumentPretty prints the class tree with box-drawing guides.
func FormatDocumentPretty(w io.Writer, doc *ast.Document, fs *source.FileSet) error {
	if doc == nil {
		return fmt.Errorf("no document")
	}
	var b strings.Builder
	start, end := fs.Resolve(doc.Span)
	fmt.Fprintf(&b, "Document (%d:%d-%d:%d)\n", start.Line, start.Col, end.Line, end.Col)
	writeNodes(&b, doc.Children, fs, "")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeNodes(b *strings.Builder, nodes []ast.Node, fs *source.FileSet, prefix string) {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		b.WriteString(prefix + branch)
		start, _ := fs.Resolve(n.NodeSpan())
		switch n := n.(type) {
		case *ast.Class:
			b.WriteString("class " + n.Name)
			if n.Parent != "" {
				b.WriteString(" : " + n.Parent)
			}
			switch {
			case n.Deleted:
				b.WriteString(" (delete)")
			case n.External:
				b.WriteString(" (external)")
			}
			fmt.Fprintf(b, " @%d:%d\n", start.Line, start.Col)
			writeNodes(b, n.Children, fs, prefix+next)
		case *ast.Entry:
			op := "="
			if n.Append {
				op = "+="
			}
			value := "<none>"
			if n.Value != nil {
				value = n.Value.String()
			}
			fmt.Fprintf(b, "%s %s %s @%d:%d\n", n.Name, op, value, start.Line, start.Col)
		}
	}
}

func FormatDocumentJSON(w io.Writer, doc *ast.Document, fs *source.FileSet) error {
	if doc == nil {
		return fmt.Errorf("no document")
	}
	start, end := fs.Resolve(doc.Span)
	root := ASTNodeOutput{Type: "Document", Start: start, End: end, Children: nodesJSON(doc.Children, fs)}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

func nodesJSON(nodes []ast.Node, fs *source.FileSet) []ASTNodeOutput {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]ASTNodeOutput, 0, len(nodes))
	for _, n := range nodes {
		start, end := fs.Resolve(n.NodeSpan())
		node := ASTNodeOutput{Name: n.NodeName(), Start: start, End: end}
		switch n := n.(type) {
		case *ast.Class:
			node.Type = "Class"
			node.Parent = n.Parent
			node.Children = nodesJSON(n.Children, fs)
		case *ast.Entry:
			node.Type = "Entry"
			if n.Value != nil {
				node.Kind = n.Value.Kind().String()
				node.Value = n.Value.String()
			}
		}
		out = append(out, node)
	}
	return out
}
