// Package log creates [slog.Handler] instances for the shellkit CLI and
// libraries.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Format is a log output format.
type Format string

const (
	FormatText   Format = "text"
	FormatLogfmt Format = "logfmt"
	FormatJSON   Format = "json"
)

var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
)

// NewWithCurrentConfig creates a [slog.Logger] by using current configuration.
func NewWithCurrentConfig() *slog.Logger {
	h, err := CreateHandlerWithStrings(os.Stderr,
		os.Getenv("SHELLKIT_LOG_LEVEL"),
		os.Getenv("SHELLKIT_LOG_FORMAT"),
	)
	if err != nil {
		h = CreateHandler(os.Stderr, slog.LevelInfo, FormatText)
	}

	return slog.New(h)
}

// CreateHandler creates a [slog.Handler] writing to w.
func CreateHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case FormatLogfmt:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:     charmlog.Level(level),
			Formatter: charmlog.LogfmtFormatter,
		})
	case FormatText:
		fallthrough
	default:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:     charmlog.Level(level),
			Formatter: charmlog.TextFormatter,
		})
	}
}

// CreateHandlerWithStrings creates a [slog.Handler] by strings, validating
// both the level and the format.
func CreateHandlerWithStrings(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	level, err := GetLevel(logLevel)
	if err != nil {
		return nil, err
	}

	format, err := GetFormat(logFormat)
	if err != nil {
		return nil, err
	}

	return CreateHandler(w, level, format), nil
}

// GetLevel parses a log/slog level from a string.
func GetLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "panic", "fatal", "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug", "trace":
		return slog.LevelDebug, nil
	}

	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
}

// GetFormat parses a [Format] from a string.
func GetFormat(format string) (Format, error) {
	switch strings.ToLower(format) {
	case "json":
		return FormatJSON, nil
	case "logfmt":
		return FormatLogfmt, nil
	case "text", "":
		return FormatText, nil
	}

	return FormatText, fmt.Errorf("%w: %q", ErrInvalidLogFormat, format)
}

// SetDefault installs the default slog logger from level and format strings.
func SetDefault(w io.Writer, logLevel, logFormat string) error {
	h, err := CreateHandlerWithStrings(w, logLevel, logFormat)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(h))

	return nil
}
