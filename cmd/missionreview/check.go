package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"missionreview/internal/diag"
	"missionreview/internal/diagfmt"
	"missionreview/internal/driver"
	"missionreview/internal/logger"
	"missionreview/internal/observ"
	"missionreview/internal/prof"
	"missionreview/internal/source"
	"missionreview/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [filter...]",
	Short: "Review every mission in the repository",
	Long: `Review every mission folder found under --root. Positional arguments keep only
missions whose path contains one of them. Diagnostics are written to the
annotation log and rendered to stdout.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("root", ".", "repository root containing the mission folders")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().String("format", "pretty", "stdout format (pretty|json|sarif|github|none)")
	checkCmd.Flags().String("log", "", "annotation log path (default from config: missionreviewer.log)")
	checkCmd.Flags().Bool("no-warnings", false, "drop warnings and notices")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Bool("cache", false, "reuse results of unchanged missions from the disk cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop the disk cache before checking")
	checkCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	checkCmd.Flags().Int("max-diagnostics", 0, "maximum number of diagnostics to print (0=all)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().String("cpu-profile", "", "write a CPU profile to this file")
	checkCmd.Flags().String("mem-profile", "", "write a heap profile to this file")
}

type checkFlags struct {
	root             string
	jobs             int
	format           string
	logPath          string
	noWarnings       bool
	warningsAsErrors bool
	cache            bool
	clearCache       bool
	ui               uiMode
	maxDiagnostics   int
	fullPath         bool
	quiet            bool
	timings          bool
	profile          prof.Options
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var (
		f   checkFlags
		err error
		ui  string
	)
	get := func(name string, dst any) {
		if err != nil {
			return
		}
		switch dst := dst.(type) {
		case *string:
			*dst, err = cmd.Flags().GetString(name)
		case *int:
			*dst, err = cmd.Flags().GetInt(name)
		case *bool:
			*dst, err = cmd.Flags().GetBool(name)
		}
		if err != nil {
			err = fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}
	get("root", &f.root)
	get("jobs", &f.jobs)
	get("format", &f.format)
	get("log", &f.logPath)
	get("no-warnings", &f.noWarnings)
	get("warnings-as-errors", &f.warningsAsErrors)
	get("cache", &f.cache)
	get("clear-cache", &f.clearCache)
	get("ui", &ui)
	get("max-diagnostics", &f.maxDiagnostics)
	get("fullpath", &f.fullPath)
	get("quiet", &f.quiet)
	get("timings", &f.timings)
	get("cpu-profile", &f.profile.CPU)
	get("mem-profile", &f.profile.Mem)
	if err != nil {
		return f, err
	}
	if f.noWarnings && f.warningsAsErrors {
		return f, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	switch f.format {
	case "pretty", "json", "sarif", "github", "none":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	f.ui, err = readUIMode(ui)
	return f, err
}

func runCheck(cmd *cobra.Command, args []string) error {
	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	session, err := prof.Start(flags.profile)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Stop(); err != nil {
			log.Warn("failed to write profile", zap.Error(err))
		}
	}()
	timer := observ.NewTimer()
	ctx := cmd.Context()

	root, err := filepath.Abs(flags.root)
	if err != nil {
		return fmt.Errorf("failed to resolve root: %w", err)
	}

	done := timer.Track("config")
	cfg, _, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	logPath := cfg.Output.Log
	if flags.logPath != "" {
		logPath = flags.logPath
	}
	done("")

	done = timer.Track("discover")
	missions, err := driver.Discover(root, cfg.Layout, args)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	done(fmt.Sprintf("%d missions", len(missions)))

	opts := driver.Options{
		Jobs:     flags.jobs,
		Mission:  cfg.MissionOptions(),
		Prefixes: cfg.Prefixes,
		Logger:   log,
	}
	if flags.cache || flags.clearCache {
		cache, err := openCache(flags.clearCache)
		if err != nil {
			return err
		}
		if flags.cache {
			opts.Cache = cache
			if opts.Salt, err = cfg.Fingerprint(version.Version); err != nil {
				return fmt.Errorf("failed to fingerprint config: %w", err)
			}
		}
	}

	done = timer.Track("review")
	sink := &diag.Collector{}
	var results []driver.Result
	if shouldUseTUI(flags.ui) && len(missions) > 0 {
		results, err = checkWithUI(ctx, missions, sink, opts)
	} else {
		results, err = driver.CheckAll(ctx, missions, sink, opts)
	}
	if err != nil {
		return fmt.Errorf("review interrupted: %w", err)
	}
	done(fmt.Sprintf("%d diagnostics", sink.Len()))

	bag := relativize(sink.Bag(), root)
	if flags.noWarnings {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Level == diag.LevelError })
	}
	if flags.warningsAsErrors {
		bag.Promote()
	}

	done = timer.Track("output")
	// лог пишется в порядке завершения миссий, до сортировки
	n, err := diagfmt.WriteLog(logPath, bag)
	if err != nil {
		return err
	}
	if !flags.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d messages to %s\n", n, logPath)
	}

	bag.Sort()
	if err := render(cmd, cmd.OutOrStdout(), bag, flags, root); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	done("")

	if flags.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	for _, r := range driver.Failed(results) {
		log.Error("mission could not be reviewed", zap.String("mission", r.Mission.Name), zap.Error(r.Err))
	}
	if bag.HasErrors() || len(driver.Failed(results)) > 0 {
		return exitError{code: 1}
	}
	return nil
}

func openCache(clear bool) (*driver.DiskCache, error) {
	cache, err := driver.OpenDiskCache("missionreview")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if clear {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		logger.For(log, logger.ComponentCache).Info("cache cleared")
	}
	return cache, nil
}

func render(cmd *cobra.Command, out io.Writer, bag *diag.Bag, flags checkFlags, root string) error {
	shown := bag
	if flags.maxDiagnostics > 0 && bag.Len() > flags.maxDiagnostics {
		shown = diag.NewBag(flags.maxDiagnostics)
		shown.AddAll(bag.Items())
	}
	pathMode := diagfmt.PathModeAuto
	if flags.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch flags.format {
	case "pretty":
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		return diagfmt.Pretty(out, shown, diagfmt.PrettyOpts{
			Color:    color,
			PathMode: pathMode,
			BaseDir:  root,
			Context:  true,
		})
	case "json":
		return diagfmt.JSON(out, bag, diagfmt.JSONOpts{PathMode: pathMode, BaseDir: root, Max: flags.maxDiagnostics})
	case "sarif":
		return diagfmt.Sarif(out, shown, diagfmt.SarifRunMeta{
			ToolName:       "missionreview",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	case "github":
		return diagfmt.GitHub(out, shown)
	default:
		return nil
	}
}

// relativize rewrites paths inside root relative to it, so the log and the
// annotations use repository paths.
func relativize(bag *diag.Bag, root string) *diag.Bag {
	out := diag.NewBag(0)
	for _, d := range bag.Items() {
		if rel, err := source.RelativePath(d.Path, root); err == nil && !filepath.IsAbs(rel) {
			d.Path = rel
		}
		out.Add(d)
	}
	return out
}
