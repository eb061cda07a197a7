package parser

import (
	"strings"
	"testing"

	"missionreview/internal/ast"
	"missionreview/internal/source"
)

func parse(t *testing.T, text string) Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("mission.sqm", []byte(text))
	return ParseFile(fs.Get(id), Options{})
}

const sampleMission = `version=54;
class EditorData
{
	moveGridStep=1;
};
binarizationWanted=0;
class Mission
{
	class Intel
	{
		briefingName="CO10 Test";
		hour=6;
		overcast=0.30000001;
	};
	class Entities
	{
		items=1;
		class Item0
		{
			dataType="Group";
			side="West";
			class Entities
			{
				items=1;
				class Item0
				{
					dataType="Object";
					class Attributes
					{
						isPlayable=1;
						description="Contractor";
					};
					id=2;
					type="synixe_contractors_Unit_I_Contractor";
				};
			};
			id=1;
		};
	};
	addons[]=
	{
		"A3_Characters_F",
		"cba_main"
	};
};
`

func TestParseMission(t *testing.T) {
	res := parse(t, sampleMission)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	doc := res.Doc
	if v, _, ok := ast.GetNumber(doc, "version"); !ok || v != 54 {
		t.Fatalf("version = %d, %v", v, ok)
	}
	intel := ast.GetClass(doc, "Mission.Intel")
	if intel == nil {
		t.Fatal("Mission.Intel missing")
	}
	if name, span, ok := ast.GetString(intel, "briefingName"); !ok || name != "CO10 Test" {
		t.Fatalf("briefingName = %q %v", name, ok)
	} else if got := sampleMission[span.Start:span.End]; got != `"CO10 Test"` {
		t.Fatalf("string span covers %q", got)
	}
	if f, _, ok := ast.GetFloat(intel, "overcast"); !ok || f < 0.29 || f > 0.31 {
		t.Fatalf("overcast = %v %v", f, ok)
	}
	unit := ast.GetClass(doc, "Mission.Entities.Item0.Entities.Item0")
	if unit == nil {
		t.Fatal("nested unit missing")
	}
	if v, _, ok := ast.GetNumber(ast.GetClass(unit, "Attributes"), "isPlayable"); !ok || v != 1 {
		t.Fatalf("isPlayable = %d %v", v, ok)
	}
	addons := ast.GetEntry(ast.GetClass(doc, "Mission"), "addons")
	arr, ok := addons.Value.(*ast.Array)
	if !ok || len(arr.Items) != 2 {
		t.Fatalf("addons = %+v", addons.Value)
	}
}

func TestParseInheritanceAndExternal(t *testing.T) {
	res := parse(t, "class Base;\nclass Derived: Base { x=1; };\ndelete Old;\n")
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	nodes := res.Doc.Children
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	base := nodes[0].(*ast.Class)
	if !base.External || base.Name != "Base" {
		t.Errorf("base = %+v", base)
	}
	derived := nodes[1].(*ast.Class)
	if derived.Parent != "Base" || len(derived.Children) != 1 {
		t.Errorf("derived = %+v", derived)
	}
	if del := nodes[2].(*ast.Class); !del.Deleted {
		t.Errorf("delete = %+v", del)
	}
}

func TestParseValues(t *testing.T) {
	res := parse(t, `a="say ""hi"""; b=-3; c=1e3; d[]={{1,2},{}}; e[]+={"x"}; f=Hello World; g=0x10; h=99999999999;`)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	doc := res.Doc
	if s, _, _ := ast.GetString(doc, "a"); s != `say "hi"` {
		t.Errorf("a = %q", s)
	}
	if n, _, _ := ast.GetNumber(doc, "b"); n != -3 {
		t.Errorf("b = %d", n)
	}
	if f, _, ok := ast.GetFloat(doc, "c"); !ok || f != 1000 {
		t.Errorf("c = %v", f)
	}
	if d := ast.GetEntry(doc, "d").Value.String(); d != "{{1,2},{}}" {
		t.Errorf("d = %s", d)
	}
	if e := ast.GetEntry(doc, "e"); !e.Append {
		t.Errorf("e must be an append entry")
	}
	if f, ok := ast.GetEntry(doc, "f").Value.(*ast.Bare); !ok || f.Text != "Hello World" {
		t.Errorf("f = %+v", ast.GetEntry(doc, "f").Value)
	}
	if g, _, _ := ast.GetNumber(doc, "g"); g != 16 {
		t.Errorf("g = %d", g)
	}
	if _, _, ok := ast.GetNumber(doc, "h"); ok {
		t.Errorf("h exceeds 32 bits and must read as absent")
	}
}

func TestParseRecoversAfterErrors(t *testing.T) {
	res := parse(t, "a=1;\nb 2;\nc=3;\n}\nclass X { y=; z=4; };\n")
	if len(res.Errors) < 3 {
		t.Fatalf("expected at least 3 errors, got %v", res.Errors)
	}
	doc := res.Doc
	if _, _, ok := ast.GetNumber(doc, "c"); !ok {
		t.Error("c should survive recovery")
	}
	if _, _, ok := ast.GetNumber(ast.GetClass(doc, "X"), "z"); !ok {
		t.Error("X.z should survive recovery")
	}
}

func TestParseUnterminated(t *testing.T) {
	for _, text := range []string{"class A {", "a[]={1,2", `a="x`, "a=", "class"} {
		res := parse(t, text)
		if len(res.Errors) == 0 {
			t.Errorf("%q: expected an error", text)
		}
		for _, e := range res.Errors {
			if e.Span.Start > uint32(len(text)) {
				t.Errorf("%q: error span %v outside input", text, e.Span)
			}
		}
	}
}

func TestParseMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x", []byte(strings.Repeat("= ;\n", 10)))
	res := ParseFile(fs.Get(id), Options{MaxErrors: 2})
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(res.Errors))
	}
}
