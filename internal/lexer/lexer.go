package lexer

import (
	"missionreview/internal/source"
	"missionreview/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStart(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case (ch == '-' || ch == '+' || ch == '.') && lx.isNumberAfterSign():
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	default:
		return lx.scanPunct()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Text returns the processed text covered by sp.
func (lx *Lexer) Text(sp source.Span) string {
	return lx.cursor.Slice(sp)
}

// Len is the length of the input in characters.
func (lx *Lexer) Len() uint32 {
	return lx.cursor.limit()
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) isNumberAfterSign() bool {
	r0, r1 := lx.cursor.Peek(), lx.cursor.PeekAt(1)
	if r0 == '.' {
		return isDec(r1)
	}
	return isDec(r1) || (r1 == '.' && isDec(lx.cursor.PeekAt(2)))
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	r := lx.cursor.Bump()
	kind := token.Other
	switch r {
	case '=':
		kind = token.Assign
	case '+':
		if lx.cursor.Eat('=') {
			kind = token.PlusAssign
		}
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.cursor.Slice(sp)}
}
