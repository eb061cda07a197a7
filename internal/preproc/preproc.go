package preproc

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"missionreview/internal/source"
)

// ErrIncludeCycle is wrapped by errors for files that include themselves.
var ErrIncludeCycle = errors.New("include cycle")

const defaultMaxDepth = 32

// Error is a preprocessing failure at a position of an original file.
type Error struct {
	Pos source.Position
	Msg string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Path, e.Pos.Line, e.Pos.Col, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Options tune a preprocessor run.
type Options struct {
	// Defines are object-like macros visible from the first line.
	Defines map[string]string
	// MaxDepth bounds #include nesting; 0 means the default.
	MaxDepth int
}

// Processed is the output of Run. It implements source.Mapping.
type Processed struct {
	fs       *source.FileSet
	File     source.FileID
	Root     string
	segs     []segment
	includes []string
}

// Text returns the preprocessed text.
func (p *Processed) Text() string {
	return p.fs.Get(p.File).Text()
}

// Includes lists every file read, the root first.
func (p *Processed) Includes() []string {
	return p.includes
}

type macro struct {
	params []string
	fn     bool
	body   string
}

type cond struct {
	active       bool
	parentActive bool
	elseSeen     bool
	at           uint32
}

type processor struct {
	fs        *source.FileSet
	maxDepth  int
	macros    map[string]*macro
	stack     []string
	includes  []string
	expanding map[string]bool
	b         builder
}

// Run preprocesses the file at path. The file and everything it includes are
// loaded into fs.
func Run(fs *source.FileSet, path string, opts Options) (*Processed, error) {
	p := &processor{
		fs:        fs,
		maxDepth:  opts.MaxDepth,
		macros:    make(map[string]*macro, len(opts.Defines)),
		expanding: make(map[string]bool),
	}
	if p.maxDepth <= 0 {
		p.maxDepth = defaultMaxDepth
	}
	for name, body := range opts.Defines {
		p.macros[name] = &macro{body: body}
	}
	if err := p.file(path, 0); err != nil {
		return nil, err
	}
	id := fs.AddVirtual(path+".processed", []byte(string(p.b.out)))
	return &Processed{
		fs:       fs,
		File:     id,
		Root:     path,
		segs:     p.b.segs,
		includes: p.includes,
	}, nil
}

func (p *processor) errorAt(id source.FileID, off uint32, err error, format string, args ...any) error {
	return &Error{Pos: p.fs.Position(id, off), Msg: fmt.Sprintf(format, args...), Err: err}
}

func (p *processor) file(path string, depth int) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if slices.Contains(p.stack, abs) {
		return fmt.Errorf("%w: %s", ErrIncludeCycle, path)
	}
	id, err := p.fs.Load(path)
	if err != nil {
		return err
	}
	p.stack = append(p.stack, abs)
	defer func() { p.stack = p.stack[:len(p.stack)-1] }()
	p.includes = append(p.includes, path)

	runes := []rune(p.fs.Get(id).Text())
	n := len(runes)
	var conds []cond
	active := func() bool { return len(conds) == 0 || conds[len(conds)-1].active }

	i := 0
	lineStart := true
	for i < n {
		r := runes[i]
		if lineStart {
			lineStart = false
			j := i
			for j < n && (runes[j] == ' ' || runes[j] == '\t') {
				j++
			}
			if j < n && runes[j] == '#' {
				end, text := logicalLine(runes, j+1)
				if err := p.directive(id, path, text, off(j), &conds, depth); err != nil {
					return err
				}
				i = end
				continue
			}
		}
		if !active() {
			if r == '\n' {
				lineStart = true
			}
			i++
			continue
		}
		switch {
		case r == '\n':
			p.b.emitVerbatim(r, id, off(i))
			lineStart = true
			i++
		case r == '/' && i+1 < n && runes[i+1] == '/':
			for i < n && runes[i] != '\n' {
				i++
			}
		case r == '/' && i+1 < n && runes[i+1] == '*':
			closeAt := indexFrom(runes, i+2, "*/")
			if closeAt < 0 {
				return p.errorAt(id, off(i), nil, "unterminated block comment")
			}
			p.b.emitVerbatim(' ', id, off(i))
			i = closeAt + 2
		case r == '"':
			end := skipString(runes, i)
			for k := i; k < end; k++ {
				p.b.emitVerbatim(runes[k], id, off(k))
			}
			i = end
		case isIdentStart(r):
			j := scanIdent(runes, i)
			name := string(runes[i:j])
			m, ok := p.macros[name]
			if !ok {
				for k := i; k < j; k++ {
					p.b.emitVerbatim(runes[k], id, off(k))
				}
				i = j
				continue
			}
			var args []string
			end := j
			if m.fn {
				var isCall bool
				args, end, isCall = parseArgs(runes, j)
				if !isCall {
					for k := i; k < j; k++ {
						p.b.emitVerbatim(runes[k], id, off(k))
					}
					i = j
					continue
				}
				if len(args) != len(m.params) {
					return p.errorAt(id, off(i), nil, "macro %s expects %d arguments, got %d", name, len(m.params), len(args))
				}
			}
			p.b.emitExpanded(p.expand(name, m, args), id, off(i), off(end))
			i = end
		case isIdentContinue(r):
			// numbers and number-led words are never macro names
			j := scanIdent(runes, i)
			for k := i; k < j; k++ {
				p.b.emitVerbatim(runes[k], id, off(k))
			}
			i = j
		default:
			p.b.emitVerbatim(r, id, off(i))
			i++
		}
	}
	if len(conds) > 0 {
		return p.errorAt(id, conds[len(conds)-1].at, nil, "unterminated conditional block")
	}
	return nil
}

func (p *processor) directive(id source.FileID, path, text string, at uint32, conds *[]cond, depth int) error {
	text = stripLineComment(text)
	name, rest := splitWord(text)
	isActive := len(*conds) == 0 || (*conds)[len(*conds)-1].active

	switch name {
	case "ifdef", "ifndef":
		macroName, _ := splitWord(rest)
		if macroName == "" {
			return p.errorAt(id, at, nil, "#%s without a macro name", name)
		}
		_, defined := p.macros[macroName]
		if name == "ifndef" {
			defined = !defined
		}
		*conds = append(*conds, cond{active: isActive && defined, parentActive: isActive, at: at})
		return nil
	case "else":
		if len(*conds) == 0 {
			return p.errorAt(id, at, nil, "#else without #ifdef")
		}
		top := &(*conds)[len(*conds)-1]
		if top.elseSeen {
			return p.errorAt(id, at, nil, "duplicate #else")
		}
		top.elseSeen = true
		top.active = top.parentActive && !top.active
		return nil
	case "endif":
		if len(*conds) == 0 {
			return p.errorAt(id, at, nil, "#endif without #ifdef")
		}
		*conds = (*conds)[:len(*conds)-1]
		return nil
	}

	if !isActive {
		return nil
	}

	switch name {
	case "include":
		target, ok := includeTarget(rest)
		if !ok {
			return p.errorAt(id, at, nil, "malformed #include")
		}
		if strings.HasPrefix(target, "/") {
			return p.errorAt(id, at, nil, "cannot resolve addon include %q", target)
		}
		if depth+1 > p.maxDepth {
			return p.errorAt(id, at, nil, "#include nested deeper than %d", p.maxDepth)
		}
		full := filepath.Join(filepath.Dir(path), filepath.FromSlash(target))
		if err := p.file(full, depth+1); err != nil {
			var perr *Error
			if errors.As(err, &perr) {
				return err
			}
			return p.errorAt(id, at, err, "cannot include %q: %v", target, err)
		}
		return nil
	case "define":
		return p.define(id, at, rest)
	case "undef":
		macroName, _ := splitWord(rest)
		delete(p.macros, macroName)
		return nil
	case "":
		return p.errorAt(id, at, nil, "empty directive")
	}
	return p.errorAt(id, at, nil, "unsupported directive #%s", name)
}

func (p *processor) define(id source.FileID, at uint32, rest string) error {
	rest = strings.TrimLeft(rest, " \t")
	runes := []rune(rest)
	if len(runes) == 0 || !isIdentStart(runes[0]) {
		return p.errorAt(id, at, nil, "#define without a macro name")
	}
	j := scanIdent(runes, 0)
	name := string(runes[:j])
	m := &macro{}
	if j < len(runes) && runes[j] == '(' {
		closeAt := slices.Index(runes[j:], ')')
		if closeAt < 0 {
			return p.errorAt(id, at, nil, "unterminated parameter list for %s", name)
		}
		m.fn = true
		params := strings.TrimSpace(string(runes[j+1 : j+closeAt]))
		if params != "" {
			for _, param := range strings.Split(params, ",") {
				m.params = append(m.params, strings.TrimSpace(param))
			}
		}
		j += closeAt + 1
	}
	m.body = strings.TrimSpace(string(runes[j:]))
	p.macros[name] = m
	return nil
}

// expand produces the full text of one macro use, recursively expanding
// nested macros. A macro is never expanded inside its own expansion.
func (p *processor) expand(name string, m *macro, args []string) string {
	body := m.body
	if m.fn {
		body = substituteParams(body, m.params, args)
	}
	body = pasteTokens(body)
	p.expanding[name] = true
	defer delete(p.expanding, name)
	return p.expandText([]rune(body))
}

func (p *processor) expandText(runes []rune) string {
	var sb strings.Builder
	n := len(runes)
	for i := 0; i < n; {
		r := runes[i]
		switch {
		case r == '"':
			end := skipString(runes, i)
			sb.WriteString(string(runes[i:end]))
			i = end
		case isIdentStart(r):
			j := scanIdent(runes, i)
			name := string(runes[i:j])
			m, ok := p.macros[name]
			if !ok || p.expanding[name] {
				sb.WriteString(name)
				i = j
				continue
			}
			if !m.fn {
				sb.WriteString(p.expand(name, m, nil))
				i = j
				continue
			}
			args, end, isCall := parseArgs(runes, j)
			if !isCall || len(args) != len(m.params) {
				sb.WriteString(name)
				i = j
				continue
			}
			sb.WriteString(p.expand(name, m, args))
			i = end
		case isIdentContinue(r):
			j := scanIdent(runes, i)
			sb.WriteString(string(runes[i:j]))
			i = j
		default:
			sb.WriteRune(r)
			i++
		}
	}
	return sb.String()
}

func off(i int) uint32 {
	return uint32(i) //nolint:gosec // offsets are bounded by file size
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func scanIdent(runes []rune, i int) int {
	for i < len(runes) && isIdentContinue(runes[i]) {
		i++
	}
	return i
}
