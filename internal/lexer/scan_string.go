package lexer

import "missionreview/internal/token"

// Strings are "..." with "" as the escaped quote. Newlines are allowed inside.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		if lx.cursor.Peek() == '"' {
			lx.cursor.Bump()
			continue
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.StringLit, Span: sp, Text: lx.cursor.Slice(sp)}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report("UnterminatedString", sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.Slice(sp)}
}
