package lexer

import "unicode"

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDec(r rune) bool { return r >= '0' && r <= '9' }

func isHex(r rune) bool {
	return isDec(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}
