package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the missionreview CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.3.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored paints the major, minor and patch parts of Version; anything
// after the patch number (pre-release, build metadata) stays plain.
func Colored() string {
	parts := strings.SplitN(Version, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	patch, rest := parts[2], ""
	if i := strings.IndexAny(patch, "-+"); i >= 0 {
		patch, rest = patch[:i], patch[i:]
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(patch) + rest
}

// Full returns the version followed by the optional build details.
func Full() string {
	var b strings.Builder
	b.WriteString(Version)
	if GitCommit != "" {
		b.WriteString(" (" + GitCommit)
		if GitMessage != "" {
			b.WriteString(": " + GitMessage)
		}
		b.WriteString(")")
	}
	if BuildDate != "" {
		b.WriteString(" built " + BuildDate)
	}
	return b.String()
}
