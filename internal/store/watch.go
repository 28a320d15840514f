package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch evicts cached records when files in the data directory change on
// disk. The watch is registered before Watch returns; events are handled in
// the background until ctx is cancelled.
func (s *FileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.records.path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", s.records.path, err)
	}

	s.logger.Debug("data directory watcher started", zap.String("dir", s.records.path))

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				name := filepath.Base(event.Name)
				s.records.evict(name)
				s.logger.Debug("record evicted",
					zap.String("file", name),
					zap.String("op", event.Op.String()))

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("data directory watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
