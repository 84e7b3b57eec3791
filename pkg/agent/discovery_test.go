package agent

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-claude")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Discover(AdapterClaudeCode, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
}

func TestDiscoverExplicitPathMustExist(t *testing.T) {
	_, err := Discover(AdapterClaudeCode, "/does/not/exist/anywhere")
	if err == nil {
		t.Fatal("expected an error for a nonexistent explicit path")
	}
	if _, ok := err.(*ExecutableNotFoundError); !ok {
		t.Errorf("expected *ExecutableNotFoundError, got %T", err)
	}
}

func TestDiscoverEnvVarOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-codex")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	t.Setenv(CodexBinEnvVar, path)

	got, err := Discover(AdapterCodex, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
}
