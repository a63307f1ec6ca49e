// control/hotreload.go
// Author: momentics <momentics@gmail.com>
//
// Watches the config file and pushes runtime-mutable changes into a
// ConfigStore.

package control

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file on change.
type Watcher struct {
	path   string
	store  *ConfigStore
	logger *slog.Logger
	w      *fsnotify.Watcher
}

// NewWatcher watches the directory holding path, so editors that replace
// the file by rename are still seen.
func NewWatcher(path string, store *ConfigStore, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("control: watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("control: new watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("control: watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, store: store, logger: logger, w: w}, nil
}

// Run processes events until ctx is done. It always closes the watcher.
func (cw *Watcher) Run(ctx context.Context) error {
	defer cw.w.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-cw.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cw.Reload()
		case err, ok := <-cw.w.Errors:
			if !ok {
				return nil
			}
			cw.logger.Warn("config watcher error", slog.Any("error", err))
		}
	}
}

// Reload reads the file and applies it. An invalid file is logged and the
// current configuration is kept.
func (cw *Watcher) Reload() {
	next, err := LoadConfig(cw.path)
	if err != nil {
		cw.logger.Warn("config reload rejected", slog.String("path", cw.path), slog.Any("error", err))
		return
	}
	cw.store.Set(MergeRuntime(cw.store.Get(), next, cw.logger))
	cw.logger.Info("config reloaded", slog.String("path", cw.path))
}

// MergeRuntime takes the reloadable fields from next and keeps everything
// fixed at startup from cur.
func MergeRuntime(cur, next Config, logger *slog.Logger) Config {
	if next.Ring != cur.Ring && logger != nil {
		logger.Warn("ring geometry cannot change at runtime; keeping current",
			slog.Int("capacity", cur.Ring.Capacity),
			slog.String("policy", cur.Ring.Policy),
			slog.String("guard", cur.Ring.Guard))
	}
	if next.Metrics != cur.Metrics && logger != nil {
		logger.Warn("metrics address cannot change at runtime; keeping current",
			slog.String("addr", cur.Metrics.Addr))
	}
	merged := cur
	merged.Source.Period = next.Source.Period
	merged.Consumer = next.Consumer
	return merged
}
