package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/config"
)

// setupLogger builds the process logger. debug wins over the configured level.
func setupLogger(w io.Writer, level string, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
		return logger
	}
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

func loadConfig(g *Globals) (*config.Config, config.TableConfig, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, config.TableConfig{}, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, config.TableConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	table, ok := cfg.Table(g.Table)
	if !ok {
		return nil, config.TableConfig{}, fmt.Errorf("table %q is not configured", g.Table)
	}
	return cfg, table, nil
}

func openLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
