package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwClass represents the 'class' keyword.
	KwClass // class
	// KwDelete represents the 'delete' keyword.
	KwDelete // delete

	// IntLit is an integer literal, optionally negative.
	IntLit
	// FloatLit is a decimal or exponent literal, optionally negative.
	FloatLit
	// StringLit is a double-quoted string literal; "" escapes a quote.
	StringLit

	Assign     // =
	PlusAssign // +=
	Colon      // :
	Semicolon  // ;
	Comma      // ,
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]

	// Other is any character that the grammar does not use on its own.
	// It only appears inside bare (unquoted) values.
	Other
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	KwClass:    "class",
	KwDelete:   "delete",
	IntLit:     "IntLit",
	FloatLit:   "FloatLit",
	StringLit:  "StringLit",
	Assign:     "=",
	PlusAssign: "+=",
	Colon:      ":",
	Semicolon:  ";",
	Comma:      ",",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
	Other:      "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
