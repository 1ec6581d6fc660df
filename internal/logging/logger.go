package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config contains logging configuration
type Config struct {
	Level       string `yaml:"level"`
	Encoding    string `yaml:"encoding"` // json or console
	OutputPath  string `yaml:"output_path"`
	Development bool   `yaml:"development"`

	// Rotation settings, only used when OutputPath points at a file
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// DefaultConfig returns sane logging defaults
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Encoding:   "console",
		OutputPath: "stdout",
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

// New builds a zap logger from the configuration
func New(cfg Config) (*zap.Logger, error) {
	logger, _, err := NewWithLevel(cfg)
	return logger, err
}

// NewWithLevel builds the logger and also returns its atomic level so the
// verbosity can be retuned at runtime, e.g. on a config reload.
func NewWithLevel(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	parsed, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, level, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	level.SetLevel(parsed)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console", "":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, level, fmt.Errorf("unsupported log encoding: %s", cfg.Encoding)
	}

	var sink zapcore.WriteSyncer
	switch cfg.OutputPath {
	case "stdout", "":
		sink = zapcore.AddSync(os.Stdout)
	case "stderr":
		sink = zapcore.AddSync(os.Stderr)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
			return nil, level, fmt.Errorf("failed to create log directory: %w", err)
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.OutputPath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}

	core := zapcore.NewCore(encoder, sink, level)

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}

	return zap.New(core, opts...), level, nil
}
