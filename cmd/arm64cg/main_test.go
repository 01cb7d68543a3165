package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixtureReadsAndDecodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.json")
	if err := os.WriteFile(path, []byte(`{"instructions": [{"tag": "ret"}]}`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	rec, err := loadFixture(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Len() != 1 {
		t.Fatalf("expected 1 instruction, got %d", rec.Len())
	}
}

func TestLoadFixtureMissingFile(t *testing.T) {
	if _, err := loadFixture(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing fixture file")
	}
}

func TestLoadLowerOptionsFallsBackOnMissingConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	opts := loadLowerOptions()
	if opts.AllowReservedRelocPlaceholder {
		t.Fatal("expected the default config to leave reserved relocations disallowed")
	}
}
