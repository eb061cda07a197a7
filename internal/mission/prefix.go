package mission

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"missionreview/internal/diag"
)

// Prefixes lists the folder name prefixes allowed for missions.
type Prefixes struct {
	Flat   []string `toml:"flat"`
	Nested []string `toml:"nested"`
}

func DefaultPrefixes() Prefixes {
	return Prefixes{
		Flat:   []string{"CO", "SCO", "TRA"},
		Nested: []string{"CCO", "TCO", "TT"},
	}
}

// CheckPrefix verifies that dir's name starts with an allowed prefix.
// nested selects the prefixes of campaign-style folders.
func CheckPrefix(dir string, nested bool, p Prefixes) []diag.Diagnostic {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return []diag.Diagnostic{diag.AtStart(dir, "Not a directory", diag.LevelError)}
	}
	allowed := p.Flat
	if nested {
		allowed = p.Nested
	}
	name := filepath.Base(dir)
	for _, prefix := range allowed {
		if strings.HasPrefix(name, prefix) {
			return nil
		}
	}
	return []diag.Diagnostic{diag.AtStart(dir, fmt.Sprintf("Invalid prefix for %s", dir), diag.LevelError)}
}
