package token

var keywords = map[string]Kind{
	"class":  KwClass,
	"delete": KwDelete,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
