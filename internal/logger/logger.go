// Package logger builds the zap loggers used by the command line tool.
// Logs go to stderr; stdout carries rendered diagnostics only.
package logger

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel overrides the default level when --log-level is not given.
const EnvLevel = "MISSIONREVIEW_LOG_LEVEL"

// Component names attached as the "component" field.
const (
	ComponentCLI    = "cli"
	ComponentDriver = "driver"
	ComponentCache  = "cache"
)

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", "error") in format "console" or "json".
func New(w io.Writer, level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	var enc zapcore.Encoder
	switch format {
	case "", "console":
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	case "json":
		cfg = zap.NewProductionEncoderConfig()
		enc = zapcore.NewJSONEncoder(cfg)
	default:
		return nil, fmt.Errorf("unknown log format %q (want console or json)", format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}

// For returns a child logger tagged with component.
func For(l *zap.Logger, component string) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.With(zap.String("component", component))
}
