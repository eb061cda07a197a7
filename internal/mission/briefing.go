package mission

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/net/html"

	"missionreview/internal/diag"
	"missionreview/internal/source"
)

// BriefingOptions configure the briefing folder check.
type BriefingOptions struct {
	// Required lists page names (without .html) every briefing must have.
	Required []string `toml:"required"`
	// Placeholder is template text that must be replaced before release.
	Placeholder string `toml:"placeholder"`
}

func DefaultBriefing() BriefingOptions {
	return BriefingOptions{
		Required:    []string{"employer", "mission", "objectives", "situation"},
		Placeholder: "INSERT",
	}
}

func checkBriefing(r *reporter, dir string, opts BriefingOptions) {
	folder := filepath.Join(dir, "edit_me", "briefing")
	entries, err := os.ReadDir(folder)
	if errors.Is(err, fs.ErrNotExist) {
		r.whole(folder, diag.LevelError, "Briefing folder is missing")
		return
	}
	if err != nil {
		r.err = fmt.Errorf("failed to read briefing folder: %w", err)
		return
	}

	pages := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext == "" {
			continue
		}
		path := filepath.Join(folder, name)
		if ext != ".html" {
			r.whole(path, diag.LevelError, "Briefing file is not an HTML file")
			continue
		}
		pages[strings.TrimSuffix(name, ext)] = true

		if opts.Placeholder == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			r.err = fmt.Errorf("failed to read briefing page: %w", err)
			return
		}
		if span, ok := findPlaceholder(content, opts.Placeholder); ok {
			r.add(nil, path, span, diag.LevelError, "Briefing file is not edited")
		}
	}

	for _, name := range opts.Required {
		if !pages[name] {
			r.whole(filepath.Join(folder, name+".html"), diag.LevelError,
				fmt.Sprintf("Briefing page %s.html is missing", name))
		}
	}
}

// findPlaceholder locates the first placeholder inside text content.
// Markup and attribute values are skipped. The span is in characters.
func findPlaceholder(content []byte, placeholder string) (source.Span, bool) {
	needle := []byte(placeholder)
	z := html.NewTokenizer(bytes.NewReader(content))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return source.Span{}, false
		}
		raw := z.Raw()
		if tt == html.TextToken {
			if i := bytes.Index(raw, needle); i >= 0 {
				start, err := safecast.Conv[uint32](utf8.RuneCount(content[:offset+i]))
				if err != nil {
					return source.Span{}, false
				}
				length, err := safecast.Conv[uint32](utf8.RuneCount(needle))
				if err != nil {
					return source.Span{}, false
				}
				return source.Span{Start: start, End: start + length}, true
			}
		}
		offset += len(raw)
	}
}
