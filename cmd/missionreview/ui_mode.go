package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// The progress view draws on stderr so stdout stays machine readable.
func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stderr) && os.Getenv("CI") == ""
	}
}

func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}
