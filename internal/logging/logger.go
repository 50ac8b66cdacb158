// Package logging provides the console logger shared by the commands.
//
// Console satisfies both converter.Logger (printf-style leveled messages)
// and inventory.Notifier (plain event lines), so a single sink carries
// conversion progress and inventory events.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Console writes leveled, human-readable lines to a terminal or file.
type Console struct {
	logger *log.Logger
}

// New creates a Console writing to w at the given level.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
func New(w io.Writer, level string) *Console {
	return &Console{
		logger: log.NewWithOptions(w, log.Options{
			Level:  parseLevel(level),
			Prefix: "cures",
		}),
	}
}

// parseLevel converts a string log level to log.Level.
func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Level returns the active level name.
func (c *Console) Level() string {
	return c.logger.GetLevel().String()
}

func (c *Console) Debug(msg string, args ...interface{}) { c.logger.Debugf(msg, args...) }
func (c *Console) Info(msg string, args ...interface{})  { c.logger.Infof(msg, args...) }
func (c *Console) Warn(msg string, args ...interface{})  { c.logger.Warnf(msg, args...) }
func (c *Console) Error(msg string, args ...interface{}) { c.logger.Errorf(msg, args...) }

// Notify logs an inventory event at info level.
func (c *Console) Notify(message string) {
	c.logger.Info(message)
}
