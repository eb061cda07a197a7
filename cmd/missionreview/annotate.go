package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"missionreview/internal/diag"
	"missionreview/internal/diagfmt"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [flags]",
	Short: "Turn an annotation log into CI annotations and a review summary",
	Long: `Read the records written by "check" and print them as GitHub workflow
commands, a Markdown review or an HTML review. The review requests changes
when an error touches one of the --changed files.`,
	Args: cobra.NoArgs,
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().String("log", "", "annotation log to read (default from config: missionreviewer.log)")
	annotateCmd.Flags().StringSlice("changed", nil, "files changed by the pull request")
	annotateCmd.Flags().String("changed-from", "", "read changed files from this file, one per line (- for stdin)")
	annotateCmd.Flags().String("format", "github", "output format (github|markdown|html)")
	annotateCmd.Flags().String("summary", "", "also write the Markdown review to this file (e.g. $GITHUB_STEP_SUMMARY)")
	annotateCmd.Flags().Bool("fail", false, "exit 1 when the verdict is REQUEST_CHANGES")
}

func runAnnotate(cmd *cobra.Command, _ []string) error {
	logPath, err := cmd.Flags().GetString("log")
	if err != nil {
		return fmt.Errorf("failed to get log flag: %w", err)
	}
	changed, err := cmd.Flags().GetStringSlice("changed")
	if err != nil {
		return fmt.Errorf("failed to get changed flag: %w", err)
	}
	changedFrom, err := cmd.Flags().GetString("changed-from")
	if err != nil {
		return fmt.Errorf("failed to get changed-from flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	summary, err := cmd.Flags().GetString("summary")
	if err != nil {
		return fmt.Errorf("failed to get summary flag: %w", err)
	}
	fail, err := cmd.Flags().GetBool("fail")
	if err != nil {
		return fmt.Errorf("failed to get fail flag: %w", err)
	}

	if logPath == "" {
		cfg, _, err := loadConfig(cmd, ".")
		if err != nil {
			return err
		}
		logPath = cfg.Output.Log
	}
	if changedFrom != "" {
		more, err := readChanged(changedFrom)
		if err != nil {
			return err
		}
		changed = append(changed, more...)
	}

	bag, err := readLog(logPath)
	if err != nil {
		return err
	}
	review := diagfmt.BuildReview(bag, changed)
	log.Debug("review built",
		zap.String("verdict", string(review.Verdict)),
		zap.Int("files", len(review.Files)),
		zap.Int("changed", len(changed)),
	)

	out := cmd.OutOrStdout()
	switch format {
	case "github":
		err = diagfmt.GitHub(out, bag)
	case "markdown":
		err = diagfmt.Markdown(out, review)
	case "html":
		err = diagfmt.HTML(out, review)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to format annotations: %w", err)
	}

	if summary != "" {
		if err := appendSummary(summary, review); err != nil {
			return err
		}
	}
	if fail && review.Verdict == diagfmt.VerdictRequestChanges {
		return exitError{code: 1}
	}
	return nil
}

func readLog(path string) (*diag.Bag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation log: %w", err)
	}
	defer f.Close()
	items, err := diag.ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	bag := diag.NewBag(0)
	bag.AddAll(items)
	return bag, nil
}

func readChanged(path string) ([]string, error) {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open changed file list: %w", err)
		}
		defer f.Close()
		in = f
	}
	var out []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read changed file list: %w", err)
	}
	return out, nil
}

// appendSummary appends, since the step summary file is shared by all steps.
func appendSummary(path string, review diagfmt.Review) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open summary: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return diagfmt.Markdown(f, review)
}
