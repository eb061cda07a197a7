package lexer

import "missionreview/internal/token"

// Поддержка: 0, -12, 0x1F, 1.5, .5, -1e-3, 1.0e+10.
// A number immediately followed by identifier characters (e.g. 3den) is an identifier.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if r := lx.cursor.Peek(); r == '-' || r == '+' {
		lx.cursor.Bump()
	}

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') && isHex(lx.cursor.PeekAt(2)) {
		lx.cursor.Bump()
		lx.cursor.Bump()
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.finishNumber(start, kind)
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if r := lx.cursor.Peek(); r == 'e' || r == 'E' {
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			kind = token.FloatLit
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		} else {
			lx.cursor.Reset(m)
		}
	}
	return lx.finishNumber(start, kind)
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	if isIdentContinue(lx.cursor.Peek()) {
		for isIdentContinue(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		kind = token.Ident
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.cursor.Slice(sp)}
}
