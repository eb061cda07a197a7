package parser

import (
	"missionreview/internal/source"
	"missionreview/internal/token"
)

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan points past the last token when the parser is at EOF.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен; если нет, репортим и возвращаем false.
func (p *Parser) expect(k token.Kind, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(msg)
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}, false
}

func (p *Parser) err(msg string) {
	p.report(p.diagnosticSpan(), msg)
}

func (p *Parser) reportAt(sp source.Span, msg string) {
	p.report(sp, msg)
}

func (p *Parser) report(sp source.Span, msg string) {
	if p.opts.MaxErrors > 0 && len(p.errs) >= p.opts.MaxErrors {
		return
	}
	p.errs = append(p.errs, Error{Span: sp, Msg: msg})
}

// resync skips to the end of the broken statement: past the next ';' at
// brace depth zero, or up to (not past) an unmatched '}'.
func (p *Parser) resync() {
	depth := 0
	for {
		switch p.lx.Peek().Kind {
		case token.EOF:
			return
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
