package diag

import "fmt"

// Level is the severity of a diagnostic.
type Level uint8

const (
	LevelNotice Level = iota
	LevelWarning
	LevelError
)

// String returns the wire token of the level.
func (l Level) String() string {
	switch l {
	case LevelNotice:
		return "notice"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// ParseLevel is the inverse of Level.String.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "notice":
		return LevelNotice, nil
	case "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	}
	return 0, fmt.Errorf("unknown level %q", s)
}
