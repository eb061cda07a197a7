package token

import (
	"missionreview/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit:
		return true
	default:
		return false
	}
}

// IsPunct reports whether the token is structural punctuation.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case Assign, PlusAssign, Colon, Semicolon, Comma, LBrace, RBrace, LBracket, RBracket:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind == KwClass || t.Kind == KwDelete
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
