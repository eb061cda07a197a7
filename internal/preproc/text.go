package preproc

import (
	"slices"
	"strings"
	"unicode"
)

// logicalLine reads a directive line starting at i, joining "\"-continued
// lines. It returns the index of the terminating newline (or len) and the text.
func logicalLine(runes []rune, i int) (int, string) {
	var sb strings.Builder
	for i < len(runes) {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) && runes[i+1] == '\n' {
			sb.WriteByte(' ')
			i += 2
			continue
		}
		if r == '\n' {
			break
		}
		sb.WriteRune(r)
		i++
	}
	return i, sb.String()
}

// skipString returns the index just past the string literal starting at i.
// "" inside a literal is an escaped quote.
func skipString(runes []rune, i int) int {
	i++
	for i < len(runes) {
		if runes[i] == '"' {
			if i+1 < len(runes) && runes[i+1] == '"' {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(runes)
}

// indexFrom returns the rune index of needle at or after from, or -1.
func indexFrom(runes []rune, from int, needle string) int {
	nr := []rune(needle)
	for i := from; i+len(nr) <= len(runes); i++ {
		if slices.Equal(runes[i:i+len(nr)], nr) {
			return i
		}
	}
	return -1
}

// parseArgs reads "(a, b)" after a function-like macro name. It returns
// isCall=false when no parenthesis follows.
func parseArgs(runes []rune, i int) (args []string, end int, isCall bool) {
	j := i
	for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t') {
		j++
	}
	if j >= len(runes) || runes[j] != '(' {
		return nil, i, false
	}
	j++
	depth := 0
	var cur strings.Builder
	for j < len(runes) {
		r := runes[j]
		switch {
		case r == '"':
			end := skipString(runes, j)
			cur.WriteString(string(runes[j:end]))
			j = end
			continue
		case r == '(' || r == '[' || r == '{':
			depth++
		case (r == ')' || r == ']' || r == '}') && depth > 0:
			depth--
		case r == ')':
			arg := strings.TrimSpace(cur.String())
			if arg != "" || len(args) > 0 {
				args = append(args, arg)
			}
			return args, j + 1, true
		case r == ',' && depth == 0:
			args = append(args, strings.TrimSpace(cur.String()))
			cur.Reset()
			j++
			continue
		}
		cur.WriteRune(r)
		j++
	}
	return nil, i, false
}

// substituteParams replaces whole-word parameter names outside strings.
func substituteParams(body string, params, args []string) string {
	if len(params) == 0 {
		return body
	}
	values := make(map[string]string, len(params))
	for i, p := range params {
		values[p] = args[i]
	}
	runes := []rune(body)
	var sb strings.Builder
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '"':
			end := skipString(runes, i)
			sb.WriteString(string(runes[i:end]))
			i = end
		case isIdentContinue(r):
			j := scanIdent(runes, i)
			word := string(runes[i:j])
			if v, ok := values[word]; ok {
				sb.WriteString(v)
			} else {
				sb.WriteString(word)
			}
			i = j
		default:
			sb.WriteRune(r)
			i++
		}
	}
	return sb.String()
}

// pasteTokens removes ## and the whitespace around it.
func pasteTokens(body string) string {
	for {
		idx := strings.Index(body, "##")
		if idx < 0 {
			return body
		}
		left := strings.TrimRightFunc(body[:idx], unicode.IsSpace)
		right := strings.TrimLeftFunc(body[idx+2:], unicode.IsSpace)
		body = left + right
	}
}

func stripLineComment(text string) string {
	inString := false
	for i := 0; i+1 < len(text); i++ {
		switch {
		case text[i] == '"':
			inString = !inString
		case !inString && text[i] == '/' && text[i+1] == '/':
			return text[:i]
		}
	}
	return text
}

func splitWord(text string) (word, rest string) {
	text = strings.TrimLeft(text, " \t")
	end := strings.IndexFunc(text, func(r rune) bool { return !isIdentContinue(r) })
	if end < 0 {
		return text, ""
	}
	return text[:end], text[end:]
}

func includeTarget(rest string) (string, bool) {
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 {
		return "", false
	}
	first, last := rest[0], rest[len(rest)-1]
	if (first != '"' || last != '"') && (first != '<' || last != '>') {
		return "", false
	}
	return strings.ReplaceAll(rest[1:len(rest)-1], `\`, "/"), true
}
