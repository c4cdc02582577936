package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwlog "github.com/msto63/udyr/foundation/core/log"
)

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.lox")
	if err := os.WriteFile(path, []byte("1"), 0644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	other := filepath.Join(dir, "other.lox")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, mdwlog.Discard(), func() {
			changed <- struct{}{}
		})
	}()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(other, []byte("2"), 0644); err != nil {
		t.Fatalf("failed to write other file: %v", err)
	}
	if err := os.WriteFile(path, []byte("1 + 2"), 0644); err != nil {
		t.Fatalf("failed to update script: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("Expected a change notification")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "missing", "x.lox"), mdwlog.Discard(), func() {})
	if err == nil {
		t.Error("Expected error for a missing directory")
	}
}
