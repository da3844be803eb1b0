package logging

import (
	"fmt"
	"io"
	"os"

	"netvisor/internal/config"

	"github.com/natefinch/lumberjack"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
)

// New creates the process logger. Entries go to stderr; when a log file is
// configured every level is also written there as JSON, rotated by size.
func New(cfg config.LogCfg) (*log.Logger, error) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg config.LogCfg, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	logger := &log.Logger{
		Out:       out,
		Formatter: &log.TextFormatter{FullTimestamp: true},
		Hooks:     make(log.LevelHooks),
		Level:     level,
		ExitFunc:  os.Exit,
	}

	if cfg.File != "" {
		logger.Hooks.Add(fileHook(cfg))
	}
	return logger, nil
}

func fileHook(cfg config.LogCfg) log.Hook {
	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}

	writers := lfshook.WriterMap{}
	for _, level := range log.AllLevels {
		writers[level] = rotated
	}
	return lfshook.NewHook(writers, &log.JSONFormatter{})
}
