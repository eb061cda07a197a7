package parser

import (
	"strconv"
	"strings"

	"missionreview/internal/ast"
	"missionreview/internal/token"
)

func (p *Parser) parseValue() (ast.Value, bool) {
	if p.at(token.LBrace) {
		return p.parseArray()
	}
	return p.parseScalar()
}

// parseArray: { [value {, value} [,]] }
func (p *Parser) parseArray() (ast.Value, bool) {
	open := p.advance()
	arr := &ast.Array{}
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.err("unterminated array")
			return nil, false
		}
		item, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		arr.Items = append(arr.Items, item)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RBrace, "expected ',' or '}' in array"); !ok {
		return nil, false
	}
	arr.Span = open.Span.Cover(p.lastSpan)
	return arr, true
}

func isValueEnd(k token.Kind) bool {
	return k == token.Semicolon || k == token.Comma || k == token.RBrace || k == token.EOF
}

// parseScalar reads a literal. Anything that is not a single literal up to the
// next terminator is kept verbatim as a Bare value.
func (p *Parser) parseScalar() (ast.Value, bool) {
	first := p.lx.Peek()
	if isValueEnd(first.Kind) {
		p.err("expected value")
		return nil, false
	}
	p.advance()
	if isValueEnd(p.lx.Peek().Kind) {
		if v, ok := literal(first); ok {
			return v, true
		}
	}
	span := first.Span
	for !isValueEnd(p.lx.Peek().Kind) {
		if p.at(token.LBrace) {
			p.err("unexpected '{' in value")
			return nil, false
		}
		span = span.Cover(p.advance().Span)
	}
	return &ast.Bare{Text: p.lx.Text(span), Span: span}, true
}

func literal(tok token.Token) (ast.Value, bool) {
	switch tok.Kind {
	case token.StringLit:
		return &ast.String{Value: unquote(tok.Text), Span: tok.Span}, true
	case token.IntLit:
		if v, err := strconv.ParseInt(tok.Text, 0, 64); err == nil {
			return &ast.Number{Value: v, Span: tok.Span}, true
		}
		if f, err := strconv.ParseFloat(tok.Text, 64); err == nil {
			return &ast.Float{Value: f, Span: tok.Span}, true
		}
	case token.FloatLit:
		if f, err := strconv.ParseFloat(tok.Text, 64); err == nil {
			return &ast.Float{Value: f, Span: tok.Span}, true
		}
	case token.Ident:
		return &ast.Bare{Text: tok.Text, Span: tok.Span}, true
	}
	return nil, false
}

func unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	return strings.ReplaceAll(text, `""`, `"`)
}
