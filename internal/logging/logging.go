// Package logging provides the process-wide logging context: three named
// channels ("main", "child", "error") built once at startup and passed
// explicitly to collaborators. Each channel persists to a size-rotated file
// and echoes to the console.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"botfactory/internal/config"
)

// Channel file names under the configured log directory.
const (
	mainLogFile  = "main_bot.log"
	childLogFile = "child_bots.log"
	errorLogFile = "errors.log"
)

// Channels holds the named logging channels. Main carries general
// operational events of the factory, Child carries per-hosted-bot events,
// and Error carries failures with diagnostic context.
type Channels struct {
	Main  *slog.Logger
	Child *slog.Logger
	Error *slog.Logger

	closers []io.Closer
}

// New creates the logging context, creating the log directory if absent.
// The error channel only records error-level events regardless of the
// configured level.
func New(cfg config.LogConfig) (*Channels, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", cfg.Dir, err)
	}

	level := parseLevel(cfg.Level)

	c := &Channels{}
	c.Main = c.newChannel(cfg, mainLogFile, level)
	c.Child = c.newChannel(cfg, childLogFile, level)
	c.Error = c.newChannel(cfg, errorLogFile, slog.LevelError)
	return c, nil
}

// newChannel builds one slog logger writing to a rotating file, echoed to
// stdout when console output is enabled.
func (c *Channels) newChannel(cfg config.LogConfig, file string, level slog.Level) *slog.Logger {
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, file),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	c.closers = append(c.closers, rotator)

	var w io.Writer = rotator
	if cfg.Console {
		w = io.MultiWriter(rotator, os.Stdout)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Close releases the file writers behind all channels.
func (c *Channels) Close() error {
	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ForBot returns a child-channel logger tagged with the hosted bot's
// username.
func (c *Channels) ForBot(botUsername string) *slog.Logger {
	return c.Child.With("bot", "@"+botUsername)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
