package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Format selects how log records are rendered.
type Format string

const (
	// FormatCompact prints one line per record with the attributes as a JSON
	// object: 2026-10-18 10:40:35 DEBUG recovered structured response {"recovery.tier":"heuristic"}
	FormatCompact Format = "compact"

	// FormatText is slog's logfmt-style key=value output.
	FormatText Format = "text"

	// FormatJSON is one JSON object per record, for log aggregation.
	FormatJSON Format = "json"
)

// LevelTrace sits below DEBUG and is only shown when asked for explicitly.
const LevelTrace = slog.LevelDebug - 4

// ParseFormat maps a case-insensitive name to a Format. Unknown names yield
// FormatCompact.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText
	case FormatJSON:
		return FormatJSON
	default:
		return FormatCompact
	}
}

// ParseLevel parses TRACE, DEBUG, INFO, WARN (or WARNING) and ERROR,
// case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// FormatFromEnv reads PSEUDOSCRIBE_LOG_FORMAT, then LOG_FORMAT.
func FormatFromEnv() Format {
	return ParseFormat(firstEnv("PSEUDOSCRIBE_LOG_FORMAT", "LOG_FORMAT"))
}

// LevelFromEnv reads PSEUDOSCRIBE_LOG_LEVEL, then LOG_LEVEL. An unknown value
// falls back to INFO.
func LevelFromEnv() slog.Level {
	level, _ := ParseLevel(firstEnv("PSEUDOSCRIBE_LOG_LEVEL", "LOG_LEVEL"))
	return level
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}
