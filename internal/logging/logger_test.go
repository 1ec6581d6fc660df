package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		logger, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Level = "loud"
		_, err := New(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("InvalidEncoding", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Encoding = "xml"
		_, err := New(cfg)
		require.Error(t, err)
	})

	t.Run("FileSink", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Encoding = "json"
		cfg.OutputPath = filepath.Join(t.TempDir(), "logs", "fleetsight.log")

		logger, err := New(cfg)
		require.NoError(t, err)
		logger.Info("rotation sink works")
		require.NoError(t, logger.Sync())
	})
}

func TestNewWithLevelRetunesAtRuntime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "info"

	logger, level, err := NewWithLevel(cfg)
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	level.SetLevel(zapcore.DebugLevel)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	level.SetLevel(zapcore.ErrorLevel)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}
