package diagfmt

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"missionreview/internal/diag"
	"missionreview/internal/lexer"
	"missionreview/internal/parser"
	"missionreview/internal/source"
	"missionreview/internal/token"
)

func sampleBag(path string) *diag.Bag {
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{
		Path: path, StartLine: 2, EndLine: 2, StartColumn: 3, EndColumn: 7,
		Level: diag.LevelError, Title: "triggers", Message: "Trigger not set to server only",
	})
	bag.Add(diag.Diagnostic{
		Path: path, StartLine: 1, EndLine: 3, StartColumn: 1, EndColumn: 2,
		Level: diag.LevelWarning, Message: "multi\nline",
	})
	return bag
}

func TestPrettyContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mission.sqm")
	if err := os.WriteFile(path, []byte("class A {\n  type = 1;\n};\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(path), PrettyOpts{Context: true, BaseDir: dir}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"mission.sqm:2:3: error: [triggers] Trigger not set to server only\n",
		"    2 |   type = 1;\n",
		"      |   ^~~~\n",
		"1 error, 1 warning, 0 notices\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("unexpected color codes in %q", out)
	}
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag("missing.sqm"), PrettyOpts{Color: true, Context: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI codes, got %q", buf.String())
	}
	// контекст пропускается, если файла нет
	if strings.Contains(buf.String(), " | ") {
		t.Errorf("context printed for unreadable file")
	}
}

func TestFormatPath(t *testing.T) {
	base := filepath.FromSlash("/work/missions")
	in := filepath.Join(base, "contracts", "CO10_Test", "mission.sqm")
	cases := []struct {
		mode PathMode
		want string
	}{
		{PathModeAuto, "contracts/CO10_Test/mission.sqm"},
		{PathModeRelative, "contracts/CO10_Test/mission.sqm"},
		{PathModeBasename, "mission.sqm"},
	}
	for _, tc := range cases {
		if got := formatPath(in, base, tc.mode); got != tc.want {
			t.Errorf("mode %d: got %q, want %q", tc.mode, got, tc.want)
		}
	}
	if got := formatPath("./a/b.sqm", "", PathModeAuto); got != "a/b.sqm" {
		t.Errorf("no base: got %q", got)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag("m/mission.sqm"), JSONOpts{Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || out.Errors != 1 || out.Warnings != 1 {
		t.Errorf("counts = %+v", out)
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("Max not applied: %d items", len(out.Diagnostics))
	}
	loc := out.Diagnostics[0].Location
	if loc.File != "m/mission.sqm" || loc.StartLine != 2 || loc.EndCol != 7 {
		t.Errorf("location = %+v", loc)
	}
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "missionreview", ToolVersion: "dev", InvocationArgs: []string{"check"}}
	if err := Sarif(&buf, sampleBag(`m\mission.sqm`), meta); err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if doc["version"] != "2.1.0" {
		t.Errorf("version = %v", doc["version"])
	}
	out := buf.String()
	for _, want := range []string{`"level": "error"`, `"level": "warning"`, `"ruleId": "triggers"`, `"name": "missionreview"`} {
		if !strings.Contains(out, want) {
			t.Errorf("SARIF missing %s", want)
		}
	}
}

func TestGitHub(t *testing.T) {
	var buf bytes.Buffer
	if err := GitHub(&buf, sampleBag("m/mission.sqm")); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	want := "::error file=m/mission.sqm,line=2,endLine=2,col=3,endColumn=7,title=triggers::Trigger not set to server only"
	if lines[0] != want {
		t.Errorf("got  %q\nwant %q", lines[0], want)
	}
	if lines[1] != "::warning file=m/mission.sqm,line=1,endLine=3::multi%0Aline" {
		t.Errorf("multi-line record = %q", lines[1])
	}
}

func TestWriteLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missionreviewer.log")
	n, err := WriteLog(path, sampleBag("mission.sqm"))
	if err != nil || n != 2 {
		t.Fatalf("WriteLog = %d, %v", n, err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	items, err := diag.ReadRecords(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Message != "Trigger not set to server only" {
		t.Errorf("records = %+v", items)
	}
}

func TestBuildReview(t *testing.T) {
	bag := diag.NewBag(0)
	add := func(path string, level diag.Level, msg string) {
		bag.Add(diag.Diagnostic{Path: path, StartLine: 1, EndLine: 1, StartColumn: 1, EndColumn: 1, Level: level, Message: msg})
	}
	add("contracts/CO4_A/mission.sqm", diag.LevelError, "No shops found")
	add("contracts/CO4_A/mission.sqm", diag.LevelError, "No shops found")
	add("contracts/CO6_B/mission.sqm", diag.LevelWarning, "WaypointActivation link references unknown entity id(s) 9")

	r := BuildReview(bag, []string{"contracts/CO6_B/mission.sqm"})
	if r.Verdict != VerdictApprove {
		t.Errorf("error in unchanged mission should not block, got %s", r.Verdict)
	}
	if r.Errors != 1 || r.Warnings != 1 {
		t.Errorf("duplicates not dropped: %+v", r)
	}
	if len(r.Files) != 2 || r.Files[0].Changed || !r.Files[1].Changed {
		t.Errorf("files = %+v", r.Files)
	}

	r = BuildReview(bag, []string{"contracts/CO4_A/description.ext"})
	if r.Verdict != VerdictRequestChanges {
		t.Errorf("change in the same folder should block, got %s", r.Verdict)
	}
	if r = BuildReview(bag, nil); r.Verdict != VerdictRequestChanges {
		t.Errorf("no changed list: got %s", r.Verdict)
	}
}

func TestReviewMarkdownAndHTML(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Path: "a/mission.sqm", StartLine: 4, EndLine: 4, StartColumn: 1, EndColumn: 2,
		Level: diag.LevelError, Message: "Unknown synixe_type 7"})
	r := BuildReview(bag, nil)

	var md bytes.Buffer
	if err := Markdown(&md, r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md.String(), `line 4: Unknown synixe\_type 7`) {
		t.Errorf("markdown = %s", md.String())
	}

	var html bytes.Buffer
	if err := HTML(&html, r); err != nil {
		t.Fatal(err)
	}
	out := html.String()
	for _, want := range []string{"<h2>Mission review</h2>", "<code>REQUEST_CHANGES</code>", "Unknown synixe_type 7", "<li>"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q:\n%s", want, out)
		}
	}

	md.Reset()
	if err := Markdown(&md, BuildReview(diag.NewBag(0), nil)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md.String(), "`APPROVE`") || !strings.Contains(md.String(), "No findings.") {
		t.Errorf("empty review = %s", md.String())
	}
}

func TestFormatTokensAndDocument(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("mission.sqm", []byte("version=54;\nclass Mission\n{\n\tclass Intel{hour=6;};\n};\n"))
	file := fs.Get(id)

	lx := lexer.New(file, lexer.Options{})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"version" at 1:1-1:8`) {
		t.Errorf("tokens = %s", buf.String())
	}
	buf.Reset()
	if err := FormatTokensJSON(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || len(decoded) != len(toks) {
		t.Fatalf("tokens JSON: %v, %d items", err, len(decoded))
	}

	res := parser.ParseFile(file, parser.Options{})
	if len(res.Errors) != 0 {
		t.Fatalf("parse errors: %+v", res.Errors)
	}
	buf.Reset()
	if err := FormatDocumentPretty(&buf, res.Doc, fs); err != nil {
		t.Fatal(err)
	}
	want := "├─ version = 54 @1:1\n└─ class Mission @2:1\n   └─ class Intel @4:2\n      └─ hour = 6 @4:14\n"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("tree:\n%s\nwant suffix:\n%s", buf.String(), want)
	}
	buf.Reset()
	if err := FormatDocumentJSON(&buf, res.Doc, fs); err != nil {
		t.Fatal(err)
	}
	var root ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 2 || root.Children[1].Children[0].Name != "Intel" {
		t.Errorf("json tree = %+v", root)
	}
}
