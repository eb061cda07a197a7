package lexer

import "missionreview/internal/token"

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.cursor.Slice(sp)
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
