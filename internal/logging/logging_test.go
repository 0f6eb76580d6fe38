package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "typemaster.log")
	logger, cleanup, err := New(path, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debugw("hidden", "k", 1)
	logger.Infow("session saved", "wpm", 42)
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "session saved") || !strings.Contains(out, `"wpm":42`) {
		t.Fatalf("expected info entry, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry written at info level")
	}
}

func TestNewDebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	logger, cleanup, err := New(path, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debugw("visible")
	cleanup()
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "visible") {
		t.Fatalf("debug entry missing")
	}
}
