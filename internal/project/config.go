package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"missionreview/internal/driver"
	"missionreview/internal/mission"
	"missionreview/internal/rules"
)

// ConfigName is the project configuration file name.
const ConfigName = "missionreview.toml"

// ErrNoConfig is returned by Discover when no configuration file exists.
var ErrNoConfig = errors.New("no " + ConfigName + " found")

// DefaultLog is where the annotation log is written unless configured.
const DefaultLog = "missionreviewer.log"

// Config is the decoded missionreview.toml.
type Config struct {
	Layout   driver.Layout           `toml:"layout"`
	Prefixes mission.Prefixes        `toml:"prefixes"`
	Rules    rules.Config            `toml:"rules"`
	Briefing mission.BriefingOptions `toml:"briefing"`
	Output   Output                  `toml:"output"`
}

type Output struct {
	Log string `toml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Layout:   driver.DefaultLayout(),
		Prefixes: mission.DefaultPrefixes(),
		Rules:    rules.DefaultConfig(),
		Briefing: mission.DefaultBriefing(),
		Output:   Output{Log: DefaultLog},
	}
}

// MissionOptions is the per-mission part of the configuration.
func (c Config) MissionOptions() mission.Options {
	return mission.Options{Rules: c.Rules, Briefing: c.Briefing}
}

// Load decodes path over the defaults. Keys the file sets replace the
// default entirely, lists included. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	// Array tables decode into existing elements; start the list empty so a
	// partial entry never inherits fields from a default one.
	cfg.Rules.Forbidden = nil
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("rules", "forbidden") {
		cfg.Rules.Forbidden = rules.DefaultConfig().Forbidden
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds missionreview.toml from startDir upwards and loads it.
// It returns ErrNoConfig (with defaults) when there is none.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", ErrNoConfig
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

// FindConfig looks for missionreview.toml in startDir and its parents. The
// search ends at the first directory holding .git: a missions repository
// never picks up a file from the checkout it sits in.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigName)
		found, err := exists(candidate)
		if err != nil {
			return "", false, err
		}
		if found {
			return candidate, true, nil
		}
		repoRoot, err := exists(filepath.Join(dir, ".git"))
		if err != nil {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if repoRoot || parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %q: %w", path, err)
	}
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if c.Rules.RequiredShops < 0 {
		return fmt.Errorf("[rules].required_shops must not be negative")
	}
	if c.Rules.TriggerMinInterval < 0 {
		return fmt.Errorf("[rules].trigger_min_interval must not be negative")
	}
	if strings.TrimSpace(c.Output.Log) == "" {
		return fmt.Errorf("[output].log must not be empty")
	}

	known := []string{"players", "shops", "spectator", "spawners", "triggers"}
	for i, f := range c.Rules.Forbidden {
		if f.Name == "" || f.DataType == "" || f.Class == "" || f.Message == "" {
			return fmt.Errorf("[[rules.forbidden]] #%d: name, data_type, class and message are required", i+1)
		}
		if slices.Contains(known, f.Name) {
			return fmt.Errorf("[[rules.forbidden]] #%d: name %q is already used", i+1, f.Name)
		}
		known = append(known, f.Name)
	}
	for _, name := range c.Rules.Disable {
		if !slices.Contains(known, name) {
			return fmt.Errorf("[rules].disable: unknown rule %q", name)
		}
	}
	return nil
}
