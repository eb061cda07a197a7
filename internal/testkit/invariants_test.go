package testkit

import (
	"strings"
	"testing"

	"missionreview/internal/ast"
	"missionreview/internal/parser"
	"missionreview/internal/source"
)

func TestCheckSpanInvariantsParsed(t *testing.T) {
	src := "version=54;\nclass Mission\n{\n\tclass Entities\n\t{\n\t\titems=1;\n\t\tclass Item0 { dataType=\"Group\"; side=\"West\"; };\n\t};\n\tposition[]={1,2.5,3};\n};\n"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("mission.sqm", []byte(src)))
	res := parser.ParseFile(file, parser.Options{})
	if len(res.Errors) != 0 {
		t.Fatalf("parse errors: %+v", res.Errors)
	}
	if err := CheckSpanInvariants(res.Doc, file); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestCheckSpanInvariantsViolations(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.sqm", []byte("a=1;b=2;")))
	sp := func(s, e uint32) source.Span { return source.Span{File: file.ID, Start: s, End: e} }

	tests := []struct {
		name string
		doc  *ast.Document
		want string
	}{
		{"short document", &ast.Document{Span: sp(0, 3)}, "does not cover"},
		{"overlap", &ast.Document{Span: sp(0, 8), Children: []ast.Node{
			&ast.Entry{Name: "a", NameSpan: sp(0, 1), Span: sp(0, 5)},
			&ast.Entry{Name: "b", NameSpan: sp(4, 5), Span: sp(4, 8)},
		}}, "overlaps"},
		{"empty node", &ast.Document{Span: sp(0, 8), Children: []ast.Node{
			&ast.Entry{Name: "a", Span: sp(2, 2)},
		}}, "empty span"},
		{"value outside", &ast.Document{Span: sp(0, 8), Children: []ast.Node{
			&ast.Entry{Name: "a", NameSpan: sp(0, 1), Span: sp(0, 4), Value: &ast.Number{Value: 2, Span: sp(6, 7)}},
		}}, "value span"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSpanInvariants(tt.doc, file)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
	if err := CheckSpanInvariants(nil, file); err == nil {
		t.Error("nil document accepted")
	}
}
