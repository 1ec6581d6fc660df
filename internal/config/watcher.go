package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the configuration when the file changes on disk
type Watcher struct {
	logger   *zap.Logger
	path     string
	watcher  *fsnotify.Watcher
	onChange func(*Config)

	mu      sync.RWMutex
	current *Config
	done    chan struct{}
}

// NewWatcher creates a configuration watcher for path. onChange is invoked
// with the freshly loaded configuration after every successful reload.
func NewWatcher(logger *zap.Logger, path string, initial *Config, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files on save.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		logger:   logger,
		path:     path,
		watcher:  fw,
		onChange: onChange,
		current:  initial,
		done:     make(chan struct{}),
	}

	go w.loop()
	return w, nil
}

// Current returns the most recently loaded configuration
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Close stops watching
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("Failed to reload config, keeping previous", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	w.logger.Info("Configuration reloaded", zap.String("path", w.path))

	if w.onChange != nil {
		w.onChange(cfg)
	}
}
