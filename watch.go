package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher re-renders files when they are written or replaced. Parent
// directories are watched instead of the files themselves so that editors and
// log rotation that rename a new file into place are still noticed.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	onChange func(path string) error
}

func newFileWatcher(files []string, onChange func(path string) error) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	fw := &fileWatcher{
		watcher:  watcher,
		files:    make(map[string]bool),
		onChange: onChange,
	}
	dirs := make(map[string]bool)
	for _, f := range files {
		fw.files[filepath.Clean(f)] = true
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close() //nolint:errcheck
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return fw, nil
}

func watchFiles(ctx context.Context, files []string, onChange func(path string) error) error {
	fw, err := newFileWatcher(files, onChange)
	if err != nil {
		return err
	}
	fw.loop(ctx)
	return nil
}

func (fw *fileWatcher) loop(ctx context.Context) {
	defer fw.watcher.Close() //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

func (fw *fileWatcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if !fw.files[path] {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if err := fw.onChange(path); err != nil {
		logger.Error("re-render failed", "file", path, "err", err)
		return
	}
	logger.Info("re-rendered", "file", path)
}
