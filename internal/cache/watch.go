package cache

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watch invalidates the cache whenever one of the source files changes on disk.
// It watches the parent directories, so files replaced by rename are seen too,
// and returns when ctx is done.
func (c *Cache) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range c.source.Files() {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	c.logger.Info("watching input files",
		zap.String("op", "cache.Watch"),
		zap.Int("files", len(files)),
		zap.Int("dirs", len(dirs)),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !files[abs] || event.Op&watchedOps == 0 {
				continue
			}
			c.logger.Debug("input file changed",
				zap.String("op", "cache.Watch"),
				zap.String("file", abs),
				zap.String("event", event.Op.String()),
			)
			c.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("file watcher error",
				zap.String("op", "cache.Watch"),
				zap.Error(err),
			)
		}
	}
}
