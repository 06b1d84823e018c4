package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

type Options struct {
	Development bool
	// LogFile, when set, receives a JSON copy of every entry, rotated by size.
	LogFile    string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Configure applies the formatter, level and file hook to every logger.
func Configure(opts Options, loggers ...*logrus.Logger) error {
	var hook logrus.Hook
	if opts.LogFile != "" {
		h, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   opts.LogFile,
			MaxSize:    orDefault(opts.MaxSizeMB, 50),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
			Level:      level(opts),
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		hook = h
	}

	for _, l := range loggers {
		l.SetLevel(level(opts))
		if opts.Development {
			l.SetFormatter(&logrus.TextFormatter{
				ForceColors:   true,
				FullTimestamp: true,
			})
		} else {
			l.SetFormatter(&logrus.JSONFormatter{})
		}
		if hook != nil {
			l.AddHook(hook)
		}
	}
	return nil
}

// Discard silences loggers, for tests.
func Discard(loggers ...*logrus.Logger) {
	for _, l := range loggers {
		l.SetOutput(io.Discard)
	}
}

func level(opts Options) logrus.Level {
	if opts.Development {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
