package diagfmt

import (
	"path/filepath"
	"strings"

	"missionreview/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths relative to the base directory when they are
	// inside it and as given otherwise.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string
	// Context prints the offending source line with an underline.
	Context bool
	// Width caps the source line length; 0 means unlimited.
	Width int
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	Max      int // обрезка вывода, не Bag
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
}

func formatPath(path, base string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative, PathModeAuto:
		if base == "" {
			break
		}
		rel, err := source.RelativePath(path, base)
		if err != nil {
			break
		}
		if mode == PathModeAuto && filepath.IsAbs(rel) && !filepath.IsAbs(path) {
			break
		}
		return rel
	}
	return filepath.ToSlash(strings.TrimPrefix(path, "./"))
}
