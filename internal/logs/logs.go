// Package logs configures the process-wide zerolog logger. The run ledger's
// event log is a separate audit artifact; this logger is for operator-facing
// diagnostics.
package logs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level          string `env:"LOG_LEVEL" env-default:"info"`
	Format         string `env:"LOG_FORMAT" env-default:"console"`
	FilePath       string `env:"LOG_FILE" env-default:""`
	FileMaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE" env-default:"50"`
	FileMaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" env-default:"3"`
	FileMaxAgeDays int    `env:"LOG_FILE_MAX_AGE" env-default:"7"`
}

// Setup configures the global zerolog logger and returns it.
func Setup(c Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var writers []io.Writer
	if strings.ToLower(c.Format) == "json" {
		writers = append(writers, os.Stderr)
	} else {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		})
	}
	if c.FilePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   c.FilePath,
			MaxSize:    c.FileMaxSizeMB,
			MaxBackups: c.FileMaxBackups,
			MaxAge:     c.FileMaxAgeDays,
			Compress:   true,
		})
	}

	logger := zerolog.New(io.MultiWriter(writers...)).Level(lvl).With().
		Timestamp().
		Logger()

	log.Logger = logger
	return logger
}
