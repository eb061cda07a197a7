package lexer_test

import (
	"testing"

	"missionreview/internal/lexer"
	"missionreview/internal/source"
	"missionreview/internal/token"
)

type report struct {
	kind string
	span source.Span
	msg  string
}

// testReporter собирает все ошибки лексера
type testReporter struct {
	reports []report
}

func (r *testReporter) Report(kind string, span source.Span, msg string) {
	r.reports = append(r.reports, report{kind: kind, span: span, msg: msg})
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sqm", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func equalKinds(a, b []token.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLexClassBody(t *testing.T) {
	lx, rep := makeTestLexer(`class Item0 : Base { dataType="Object"; id=12; pos[]={1.5,-2,3e2}; };`)
	got := kinds(collectAllTokens(lx))
	want := []token.Kind{
		token.KwClass, token.Ident, token.Colon, token.Ident, token.LBrace,
		token.Ident, token.Assign, token.StringLit, token.Semicolon,
		token.Ident, token.Assign, token.IntLit, token.Semicolon,
		token.Ident, token.LBracket, token.RBracket, token.Assign, token.LBrace,
		token.FloatLit, token.Comma, token.IntLit, token.Comma, token.FloatLit, token.RBrace, token.Semicolon,
		token.RBrace, token.Semicolon, token.EOF,
	}
	if !equalKinds(got, want) {
		t.Fatalf("kinds mismatch:\n got %v\nwant %v", got, want)
	}
	if len(rep.reports) != 0 {
		t.Fatalf("unexpected reports: %+v", rep.reports)
	}
}

func TestLexStringEscapes(t *testing.T) {
	lx, rep := makeTestLexer(`"say ""hi"""`)
	tok := lx.Next()
	if tok.Kind != token.StringLit {
		t.Fatalf("expected StringLit, got %v", tok.Kind)
	}
	if tok.Text != `"say ""hi"""` {
		t.Errorf("unexpected text %q", tok.Text)
	}
	if len(rep.reports) != 0 {
		t.Fatalf("unexpected reports: %+v", rep.reports)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	lx, rep := makeTestLexer(`x="abc`)
	toks := collectAllTokens(lx)
	if toks[2].Kind != token.Invalid {
		t.Fatalf("expected Invalid, got %v", toks[2].Kind)
	}
	if len(rep.reports) != 1 || rep.reports[0].kind != "UnterminatedString" {
		t.Fatalf("unexpected reports: %+v", rep.reports)
	}
}

func TestLexSpansAreCharacterOffsets(t *testing.T) {
	lx, _ := makeTestLexer("x=\"ß\";y=1;")
	toks := collectAllTokens(lx)
	// x = "ß" ; y
	if toks[4].Text != "y" {
		t.Fatalf("expected y, got %q", toks[4].Text)
	}
	if toks[4].Span.Start != 6 {
		t.Errorf("expected y at character 6, got %d", toks[4].Span.Start)
	}
}

func TestLexSkipsComments(t *testing.T) {
	lx, _ := makeTestLexer("// header\na=1; /* block\n */ b=2;")
	got := kinds(collectAllTokens(lx))
	want := []token.Kind{
		token.Ident, token.Assign, token.IntLit, token.Semicolon,
		token.Ident, token.Assign, token.IntLit, token.Semicolon, token.EOF,
	}
	if !equalKinds(got, want) {
		t.Fatalf("kinds mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestLexNumberLikeIdentifiers(t *testing.T) {
	cases := map[string]token.Kind{
		"3den":  token.Ident,
		"0x1F":  token.IntLit,
		"-.5":   token.FloatLit,
		"1e":    token.Ident,
		"2.25":  token.FloatLit,
		"-7":    token.IntLit,
		"1e-03": token.FloatLit,
	}
	for in, want := range cases {
		lx, _ := makeTestLexer(in)
		tok := lx.Next()
		if tok.Kind != want {
			t.Errorf("%q: got %v, want %v", in, tok.Kind, want)
		}
		if tok.Text != in {
			t.Errorf("%q: text %q", in, tok.Text)
		}
	}
}

func TestLexPlusAssignAndPeek(t *testing.T) {
	lx, _ := makeTestLexer("a[] += {}")
	if p := lx.Peek(); p.Kind != token.Ident {
		t.Fatalf("peek: %v", p.Kind)
	}
	got := kinds(collectAllTokens(lx))
	want := []token.Kind{token.Ident, token.LBracket, token.RBracket, token.PlusAssign, token.LBrace, token.RBrace, token.EOF}
	if !equalKinds(got, want) {
		t.Fatalf("kinds mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("  ")
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %v", tok.Kind)
		}
	}
}
