package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestFileWatcher_HandleEvent(t *testing.T) {
	tmpDir := t.TempDir()
	watched := filepath.Join(tmpDir, "ci.log")
	other := filepath.Join(tmpDir, "other.log")

	var calls []string
	fw := &fileWatcher{
		files: map[string]bool{watched: true},
		onChange: func(path string) error {
			calls = append(calls, path)
			return nil
		},
	}

	fw.handleEvent(fsnotify.Event{Name: watched, Op: fsnotify.Write})
	fw.handleEvent(fsnotify.Event{Name: watched, Op: fsnotify.Create})
	fw.handleEvent(fsnotify.Event{Name: watched, Op: fsnotify.Chmod})
	fw.handleEvent(fsnotify.Event{Name: watched, Op: fsnotify.Remove})
	fw.handleEvent(fsnotify.Event{Name: other, Op: fsnotify.Write})

	if len(calls) != 2 {
		t.Fatalf("expected 2 re-renders, got %d: %v", len(calls), calls)
	}
}

func TestFileWatcher_HandleEventError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci.log")
	called := false
	fw := &fileWatcher{
		files: map[string]bool{path: true},
		onChange: func(string) error {
			called = true
			return errors.New("boom")
		},
	}
	fw.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	if !called {
		t.Error("expected onChange to run")
	}
}

func TestWatchFiles_RerendersOnWrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "ci.log")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fw, err := newFileWatcher([]string{path}, func(p string) error {
		changed <- p
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		fw.loop(ctx)
		close(done)
	}()

	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != path {
			t.Errorf("got %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for re-render")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestNewFileWatcher_MissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "ci.log")
	if _, err := newFileWatcher([]string{missing}, func(string) error { return nil }); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
