package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"missionreview/internal/project"
)

// loadConfig reads --config when given, otherwise searches upwards from
// startDir. No file at all means built-in defaults and an empty path.
func loadConfig(cmd *cobra.Command, startDir string) (project.Config, string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return project.Config{}, "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		cfg, err := project.Load(path)
		if err != nil {
			return project.Config{}, "", err
		}
		log.Debug("config loaded", zap.String("path", path))
		return cfg, path, nil
	}

	cfg, path, err := project.Discover(startDir)
	switch {
	case errors.Is(err, project.ErrNoConfig):
		log.Debug("no config file, using defaults", zap.String("start", startDir))
		return cfg, "", nil
	case err != nil:
		return project.Config{}, "", err
	}
	log.Debug("config loaded", zap.String("path", path))
	return cfg, path, nil
}
