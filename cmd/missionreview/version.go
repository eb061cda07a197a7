package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"missionreview/internal/project"
	"missionreview/internal/version"
)

// buildReport describes the binary and the rule set it would review with.
// Two runs with the same fingerprint share cache entries.
type buildReport struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	GitCommit   string `json:"git_commit,omitempty"`
	GitMessage  string `json:"git_message,omitempty"`
	BuildDate   string `json:"build_date,omitempty"`
	Config      string `json:"config"`
	Fingerprint string `json:"fingerprint"`
}

const builtinConfig = "built-in defaults"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show missionreview build information and the active rule set",
	Long: `Show the missionreview version together with the configuration that a
check started from --root would use and its fingerprint. The fingerprint
salts the review cache: it changes whenever the version or any rule
setting changes.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().Bool("full", false, "include commit and build date")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().String("root", ".", "directory to resolve "+project.ConfigName+" from")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return fmt.Errorf("failed to get root flag: %w", err)
	}

	cfg, path, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	report, err := newBuildReport(cfg, path, full)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	writeBuildReport(cmd.OutOrStdout(), report, colored)
	return nil
}

func newBuildReport(cfg project.Config, configPath string, full bool) (buildReport, error) {
	fp, err := cfg.Fingerprint(version.Version)
	if err != nil {
		return buildReport{}, fmt.Errorf("failed to fingerprint config: %w", err)
	}
	r := buildReport{
		Tool:        "missionreview",
		Version:     version.Version,
		Config:      configPath,
		Fingerprint: fmt.Sprintf("%016x", fp),
	}
	if r.Config == "" {
		r.Config = builtinConfig
	}
	if full {
		r.GitCommit = orUnknown(version.GitCommit)
		r.GitMessage = orUnknown(version.GitMessage)
		r.BuildDate = orUnknown(version.BuildDate)
	}
	return r, nil
}

func writeBuildReport(out io.Writer, r buildReport, colored bool) {
	v := r.Version
	if colored {
		v = version.Colored()
	}
	fmt.Fprintf(out, "missionreview %s\n", v)
	if r.GitCommit != "" {
		fmt.Fprintf(out, "commit:      %s (%s)\n", r.GitCommit, r.GitMessage)
		fmt.Fprintf(out, "built:       %s\n", r.BuildDate)
	}
	fmt.Fprintf(out, "config:      %s\n", r.Config)
	fmt.Fprintf(out, "fingerprint: %s\n", r.Fingerprint)
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
