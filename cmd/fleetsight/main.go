package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/config"
	"github.com/fleetsight/fleetsight/internal/logging"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildLogger loads configuration and constructs the logger shared by all
// commands. The returned atomic level lets the serve command retune
// verbosity when the config file changes.
func buildLogger(configPath string) (*config.Config, *zap.Logger, zap.AtomicLevel, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, zap.AtomicLevel{}, err
	}

	logger, level, err := logging.NewWithLevel(cfg.Logging)
	if err != nil {
		return nil, nil, level, err
	}

	return cfg, logger, level, nil
}
