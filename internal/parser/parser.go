package parser

import (
	"fmt"
	"slices"

	"missionreview/internal/ast"
	"missionreview/internal/lexer"
	"missionreview/internal/source"
	"missionreview/internal/token"
)

type Options struct {
	// MaxErrors stops error collection after this many; 0 means unlimited.
	MaxErrors int
}

// Error is a syntax error located in the preprocessed text.
type Error struct {
	Span source.Span
	Msg  string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Msg)
}

type Result struct {
	Doc    *ast.Document
	Errors []Error
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	opts     Options
	errs     []Error
	lastSpan source.Span // span последнего съеденного токена
}

// ParseFile parses one preprocessed file. The tree is always returned;
// statements that failed to parse are dropped.
func ParseFile(file *source.File, opts Options) Result {
	p := &Parser{opts: opts}
	p.lx = lexer.New(file, lexer.Options{Reporter: p})
	p.lastSpan = source.Span{File: file.ID}

	doc := &ast.Document{}
	doc.Children = p.parseItems(false)
	doc.Span = source.Span{File: file.ID, Start: 0, End: p.lx.Len()}
	return Result{Doc: doc, Errors: p.errs}
}

// Report implements lexer.Reporter.
func (p *Parser) Report(_ string, span source.Span, msg string) {
	p.report(span, msg)
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseItems reads items until EOF, or until '}' when nested.
func (p *Parser) parseItems(nested bool) []ast.Node {
	var nodes []ast.Node
	for {
		switch {
		case p.at(token.EOF):
			return nodes
		case p.at(token.RBrace):
			if nested {
				return nodes
			}
			p.err("unexpected '}'")
			p.advance()
			continue
		case p.at(token.Semicolon):
			p.advance()
			continue
		}
		node, ok := p.parseItem()
		if !ok {
			p.resync()
			continue
		}
		nodes = append(nodes, node)
	}
}

func (p *Parser) parseItem() (ast.Node, bool) {
	switch p.lx.Peek().Kind {
	case token.KwClass:
		return p.parseClass()
	case token.KwDelete:
		return p.parseDelete()
	case token.Ident:
		return p.parseEntry()
	default:
		p.err(fmt.Sprintf("expected class or property, got %q", p.lx.Peek().Text))
		return nil, false
	}
}

// parseClass: class Name [: Parent] [{ items }] ;
func (p *Parser) parseClass() (ast.Node, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, "expected class name")
	if !ok {
		return nil, false
	}
	cl := &ast.Class{Name: name.Text, NameSpan: name.Span}
	if p.at(token.Colon) {
		p.advance()
		parent, ok := p.expect(token.Ident, "expected parent class name after ':'")
		if !ok {
			return nil, false
		}
		cl.Parent = parent.Text
	}
	if p.at(token.LBrace) {
		p.advance()
		cl.Children = p.parseItems(true)
		if _, ok := p.expect(token.RBrace, fmt.Sprintf("expected '}' to close class %s", cl.Name)); !ok {
			cl.Span = kw.Span.Cover(p.lastSpan)
			return cl, true
		}
	} else {
		cl.External = true
	}
	p.expect(token.Semicolon, "expected ';' after class")
	cl.Span = kw.Span.Cover(p.lastSpan)
	return cl, true
}

// parseDelete: delete Name;
func (p *Parser) parseDelete() (ast.Node, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, "expected class name after delete")
	if !ok {
		return nil, false
	}
	p.expect(token.Semicolon, "expected ';' after delete")
	return &ast.Class{
		Name:     name.Text,
		Deleted:  true,
		External: true,
		NameSpan: name.Span,
		Span:     kw.Span.Cover(p.lastSpan),
	}, true
}

// parseEntry: name = value; | name[] = {..}; | name[] += {..};
func (p *Parser) parseEntry() (ast.Node, bool) {
	name := p.advance()
	entry := &ast.Entry{Name: name.Text, NameSpan: name.Span}
	isArray := false
	if p.at(token.LBracket) {
		p.advance()
		if _, ok := p.expect(token.RBracket, "expected ']'"); !ok {
			return nil, false
		}
		isArray = true
	}
	switch {
	case p.at(token.Assign):
		p.advance()
	case isArray && p.at(token.PlusAssign):
		p.advance()
		entry.Append = true
	default:
		p.err(fmt.Sprintf("expected '=' after %s", name.Text))
		return nil, false
	}
	value, ok := p.parseValue()
	if !ok {
		return nil, false
	}
	if isArray && value.Kind() != ast.KindArray {
		p.reportAt(value.ValueSpan(), fmt.Sprintf("%s[] expects an array value", name.Text))
	}
	entry.Value = value
	p.expect(token.Semicolon, fmt.Sprintf("expected ';' after %s", name.Text))
	entry.Span = name.Span.Cover(p.lastSpan)
	return entry, true
}
