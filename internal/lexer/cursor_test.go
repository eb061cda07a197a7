package lexer

import (
	"testing"

	"missionreview/internal/source"
)

func TestCursorRunes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.ext", []byte("aé\n"))
	c := NewCursor(fs.Get(id))

	m := c.Mark()
	if c.Bump() != 'a' || c.Bump() != 'é' {
		t.Fatal("unexpected runes")
	}
	sp := c.SpanFrom(m)
	if sp.Start != 0 || sp.End != 2 {
		t.Errorf("span = %+v", sp)
	}
	if c.Slice(sp) != "aé" {
		t.Errorf("slice = %q", c.Slice(sp))
	}
	if !c.Eat('\n') || !c.EOF() {
		t.Error("expected EOF after newline")
	}
	c.Reset(m)
	if c.Peek() != 'a' || c.PeekAt(1) != 'é' || c.PeekAt(5) != 0 {
		t.Error("reset/peek broken")
	}
}
