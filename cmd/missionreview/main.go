package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"missionreview/internal/logger"
	"missionreview/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "missionreview",
	Short:         "Review Arma 3 mission folders",
	Long:          `missionreview checks mission.sqm and description.ext of every mission in a repository and reports problems as annotations`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogger(cmd)
	},
}

// log is the CLI logger; replaced in PersistentPreRunE.
var log = zap.NewNop()

// exitError carries a process exit code without an error message.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Full()

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "path to missionreview.toml (default: search upwards from --root)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), default warn or $"+logger.EnvLevel)
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console|json)")
}

// main runs the root command. Review findings exit with status 1 without an
// error message; other failures print the error first.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = log.Sync()
	if err == nil {
		return
	}
	var exit exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func setupLogger(cmd *cobra.Command) error {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if level == "" {
		level = os.Getenv(logger.EnvLevel)
	}
	if level == "" {
		level = "warn"
	}
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return fmt.Errorf("failed to get log-format flag: %w", err)
	}
	l, err := logger.New(os.Stderr, level, format)
	if err != nil {
		return err
	}
	log = logger.For(l, logger.ComponentCLI)
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
