// Package logging configures the run logger: one logrus logger writing to
// stderr and, for real runs, to a timestamped run log file that is attached
// to the notification email afterwards.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Config controls logger construction
type Config struct {
	Level string // debug, info, warn, error
	Dir   string // directory for the run log file; empty disables the file sink
}

// Setup builds the process logger. When cfg.Dir is set the logger writes to
// stderr and to a run log file named after the run start time; the file path
// is returned so the run report can reference and attach it.
func Setup(cfg Config, startedAt time.Time) (*logrus.Logger, string, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Dir == "" {
		logger.SetOutput(os.Stderr)
		return logger, "", nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create log directory: %w", err)
	}

	logPath := filepath.Join(cfg.Dir, fmt.Sprintf("smartlead_deletion_%s.log", startedAt.Format("20060102_150405")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("open run log file: %w", err)
	}

	logger.SetOutput(io.MultiWriter(os.Stderr, file))
	return logger, logPath, nil
}

type loggerKey struct{}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves the logger carried by the context, falling back to
// the standard logrus logger when none was attached.
func FromContext(ctx context.Context) logrus.FieldLogger {
	if logger, ok := ctx.Value(loggerKey{}).(logrus.FieldLogger); ok {
		return logger
	}
	return logrus.StandardLogger()
}
