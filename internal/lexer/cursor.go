package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"missionreview/internal/source"
)

// Cursor представляет собой позицию в файле, в символах (runes).
type Cursor struct {
	File  *source.File
	runes []rune
	Off   uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	runes := []rune(string(f.Content))
	if _, err := safecast.Conv[uint32](len(runes)); err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, runes: runes}
}

func (c *Cursor) limit() uint32 {
	return uint32(len(c.runes)) //nolint:gosec // checked in NewCursor
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Peek returns the current rune, or 0 at EOF.
func (c *Cursor) Peek() rune {
	if c.EOF() {
		return 0
	}
	return c.runes[c.Off]
}

// PeekAt returns the rune n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n uint32) rune {
	if c.Off+n >= c.limit() {
		return 0
	}
	return c.runes[c.Off+n]
}

// Bump advances by one rune and returns it.
func (c *Cursor) Bump() rune {
	if c.EOF() {
		return 0
	}
	r := c.runes[c.Off]
	c.Off++
	return r
}

// Eat consumes the next rune if it matches r.
func (c *Cursor) Eat(r rune) bool {
	if !c.EOF() && c.runes[c.Off] == r {
		c.Off++
		return true
	}
	return false
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom returns the span from m to the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Slice returns the text covered by sp.
func (c *Cursor) Slice(sp source.Span) string {
	if sp.End > c.limit() {
		sp.End = c.limit()
	}
	if sp.Start >= sp.End {
		return ""
	}
	return string(c.runes[sp.Start:sp.End])
}
