package ast

import (
	"strconv"
	"strings"

	"missionreview/internal/source"
)

// ValueKind discriminates Value implementations.
type ValueKind uint8

const (
	KindString ValueKind = iota + 1
	KindNumber
	KindFloat
	KindArray
	KindBare
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindFloat:
		return "float"
	case KindArray:
		return "array"
	case KindBare:
		return "bare"
	default:
		return "unknown"
	}
}

// Value is the right-hand side of an Entry.
type Value interface {
	Kind() ValueKind
	ValueSpan() source.Span
	String() string
}

// String is a quoted string with escapes already resolved.
type String struct {
	Value string
	Span  source.Span
}

// Number is an integer literal. Values outside the 32-bit range are kept but
// are not returned by GetNumber.
type Number struct {
	Value int64
	Span  source.Span
}

// Float is a literal with a fraction or exponent.
type Float struct {
	Value float64
	Span  source.Span
}

// Array is a brace list, possibly nested.
type Array struct {
	Items []Value
	Span  source.Span
}

// Bare is unquoted text the parser could not classify (e.g. an unexpanded macro).
type Bare struct {
	Text string
	Span source.Span
}

func (v *String) Kind() ValueKind { return KindString }

func (v *String) ValueSpan() source.Span { return v.Span }

func (v *String) String() string { return strconv.Quote(v.Value) }

func (v *Number) Kind() ValueKind { return KindNumber }

func (v *Number) ValueSpan() source.Span { return v.Span }

func (v *Number) String() string { return strconv.FormatInt(v.Value, 10) }

func (v *Float) Kind() ValueKind { return KindFloat }

func (v *Float) ValueSpan() source.Span { return v.Span }

func (v *Float) String() string { return strconv.FormatFloat(v.Value, 'g', -1, 64) }

func (v *Array) Kind() ValueKind { return KindArray }

func (v *Array) ValueSpan() source.Span { return v.Span }

func (v *Array) String() string {
	parts := make([]string, len(v.Items))
	for i, it := range v.Items {
		parts[i] = it.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func (v *Bare) Kind() ValueKind { return KindBare }

func (v *Bare) ValueSpan() source.Span { return v.Span }

func (v *Bare) String() string { return v.Text }
