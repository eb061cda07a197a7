package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"missionreview/internal/diag"
)

// Verdict is the outcome of a pull request review.
type Verdict string

const (
	VerdictApprove        Verdict = "APPROVE"
	VerdictRequestChanges Verdict = "REQUEST_CHANGES"
)

// Review groups diagnostics per file for a pull request comment.
type Review struct {
	Verdict  Verdict
	Files    []ReviewFile
	Errors   int
	Warnings int
	Notices  int
}

type ReviewFile struct {
	Path     string
	Changed  bool
	Messages []diag.Diagnostic
}

// BuildReview groups bag by path, dropping repeated messages within a file.
// The verdict requests changes when an error lands in a changed file or in
// the folder of one. With no changed files every file counts as changed.
func BuildReview(bag *diag.Bag, changed []string) Review {
	var r Review
	index := map[string]int{}
	type key struct {
		line uint32
		msg  string
	}
	seen := map[string]map[key]bool{}

	for _, d := range bag.Items() {
		path := filepath.ToSlash(d.Path)
		i, ok := index[path]
		if !ok {
			i = len(r.Files)
			index[path] = i
			r.Files = append(r.Files, ReviewFile{Path: path, Changed: touches(path, changed)})
			seen[path] = map[key]bool{}
		}
		k := key{d.StartLine, d.Message}
		if seen[path][k] {
			continue
		}
		seen[path][k] = true
		r.Files[i].Messages = append(r.Files[i].Messages, d)

		switch d.Level {
		case diag.LevelError:
			r.Errors++
		case diag.LevelWarning:
			r.Warnings++
		default:
			r.Notices++
		}
		if d.Level == diag.LevelError && r.Files[i].Changed {
			r.Verdict = VerdictRequestChanges
		}
	}
	if r.Verdict == "" {
		r.Verdict = VerdictApprove
	}
	slices.SortFunc(r.Files, func(a, b ReviewFile) int { return strings.Compare(a.Path, b.Path) })
	return r
}

func touches(path string, changed []string) bool {
	if len(changed) == 0 {
		return true
	}
	dir := filepath.ToSlash(filepath.Dir(path)) + "/"
	for _, c := range changed {
		c = filepath.ToSlash(filepath.Clean(strings.Trim(c, `"`)))
		if c == path || strings.HasPrefix(c, dir) {
			return true
		}
	}
	return false
}

var levelIcons = map[diag.Level]string{
	diag.LevelError:   ":x:",
	diag.LevelWarning: ":warning:",
	diag.LevelNotice:  ":information_source:",
}

// Markdown renders the review as a comment body.
func Markdown(w io.Writer, r Review) error {
	var b strings.Builder
	b.WriteString("## Mission review\n\n")
	fmt.Fprintf(&b, "**Verdict:** `%s` (%s, %s)\n\n", r.Verdict, plural(r.Errors, "error"), plural(r.Warnings, "warning"))
	if len(r.Files) == 0 {
		b.WriteString("No findings.\n")
	}
	for _, f := range r.Files {
		fmt.Fprintf(&b, "### `%s`", f.Path)
		if !f.Changed {
			b.WriteString(" (unchanged)")
		}
		b.WriteString("\n\n")
		for _, d := range f.Messages {
			fmt.Fprintf(&b, "- %s **%s** line %d: %s\n", levelIcons[d.Level], d.Level, d.StartLine, markdownEscape(d.Message))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// HTML renders the Markdown review to an HTML fragment.
func HTML(w io.Writer, r Review) error {
	var src bytes.Buffer
	if err := Markdown(&src, r); err != nil {
		return err
	}
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	return md.Convert(src.Bytes(), w)
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "<", "&lt;", ">", "&gt;")

func markdownEscape(s string) string {
	return mdEscaper.Replace(s)
}
