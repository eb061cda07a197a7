package diagfmt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"missionreview/internal/diag"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <level>: <message>
// затем, если включено, строку исходника с подчёркиванием ^~~~.
// В конце строка с итогами.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	lines := newLineCache()
	for _, d := range bag.Items() {
		path := formatPath(d.Path, opts.BaseDir, opts.PathMode)
		loc := paint(opts.Color, fmt.Sprintf("%s:%d:%d:", path, d.StartLine, d.StartColumn), color.Bold)
		level := paint(opts.Color, d.Level.String()+":", levelAttrs(d.Level)...)
		title := ""
		if d.Title != "" {
			title = "[" + d.Title + "] "
		}
		if _, err := fmt.Fprintf(w, "%s %s %s%s\n", loc, level, title, d.Message); err != nil {
			return err
		}
		if !opts.Context {
			continue
		}
		line, ok := lines.get(d.Path, d.StartLine)
		if !ok {
			continue
		}
		if err := writeContext(w, d, line, opts); err != nil {
			return err
		}
	}

	counts := bag.Count()
	_, err := fmt.Fprintf(w, "%s, %s, %s\n",
		plural(counts[diag.LevelError], "error"),
		plural(counts[diag.LevelWarning], "warning"),
		plural(counts[diag.LevelNotice], "notice"),
	)
	return err
}

func writeContext(w io.Writer, d diag.Diagnostic, line string, opts PrettyOpts) error {
	if opts.Width > 0 && runewidth.StringWidth(line) > opts.Width {
		line = runewidth.Truncate(line, opts.Width, "...")
	}
	gutter := fmt.Sprintf("%5d | ", d.StartLine)
	blank := strings.Repeat(" ", len(gutter)-2) + "| "

	runes := []rune(line)
	start := min(max(int(d.StartColumn)-1, 0), len(runes))
	end := len(runes)
	if d.EndLine == d.StartLine {
		end = min(max(int(d.EndColumn)-1, start), len(runes))
	}
	// Tabs are kept so the marker lines up under any tab width.
	var pad strings.Builder
	for _, r := range runes[:start] {
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
	}
	width := runewidth.StringWidth(string(runes[start:end]))
	marker := "^" + strings.Repeat("~", max(width-1, 0))

	_, err := fmt.Fprintf(w, "%s%s\n%s%s%s\n", gutter, line, blank, pad.String(),
		paint(opts.Color, marker, levelAttrs(d.Level)...))
	return err
}

func levelAttrs(l diag.Level) []color.Attribute {
	switch l {
	case diag.LevelError:
		return []color.Attribute{color.FgRed, color.Bold}
	case diag.LevelWarning:
		return []color.Attribute{color.FgYellow, color.Bold}
	default:
		return []color.Attribute{color.FgCyan}
	}
}

func paint(enabled bool, s string, attrs ...color.Attribute) string {
	if !enabled {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// lineCache reads each file at most once.
type lineCache struct {
	files map[string][]string
}

func newLineCache() *lineCache {
	return &lineCache{files: make(map[string][]string)}
}

func (c *lineCache) get(path string, line uint32) (string, bool) {
	lines, ok := c.files[path]
	if !ok {
		content, err := os.ReadFile(path)
		if err == nil {
			text := strings.ReplaceAll(string(content), "\r\n", "\n")
			lines = strings.Split(text, "\n")
		}
		c.files[path] = lines
	}
	if line == 0 || int(line) > len(lines) {
		return "", false
	}
	return lines[line-1], true
}
