package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CodeGen.AllowReservedRelocPlaceholder {
		t.Error("expected AllowReservedRelocPlaceholder=false by default")
	}
	if cfg.CodeGen.GeneralPurposeOrder != "" {
		t.Errorf("expected empty GeneralPurposeOrder by default, got %q", cfg.CodeGen.GeneralPurposeOrder)
	}
	if !cfg.TUI.ColorOutput {
		t.Error("expected ColorOutput=true by default")
	}
	if cfg.TUI.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", cfg.TUI.Theme)
	}
	if cfg.ObjDump.DefaultFormat != "disasm" {
		t.Errorf("expected DefaultFormat=disasm, got %s", cfg.ObjDump.DefaultFormat)
	}
	if cfg.ObjDump.BytesPerLine != 16 {
		t.Errorf("expected BytesPerLine=16, got %d", cfg.ObjDump.BytesPerLine)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "arm64cg" && path != "config.toml" {
			t.Errorf("expected path in arm64cg directory or fallback, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.CodeGen.AllowReservedRelocPlaceholder = true
	cfg.CodeGen.GeneralPurposeOrder = "x10,x11"
	cfg.TUI.ColorOutput = false
	cfg.ObjDump.DefaultFormat = "hex"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !loaded.CodeGen.AllowReservedRelocPlaceholder {
		t.Error("expected AllowReservedRelocPlaceholder=true")
	}
	if loaded.CodeGen.GeneralPurposeOrder != "x10,x11" {
		t.Errorf("expected GeneralPurposeOrder=x10,x11, got %s", loaded.CodeGen.GeneralPurposeOrder)
	}
	if loaded.TUI.ColorOutput {
		t.Error("expected ColorOutput=false")
	}
	if loaded.ObjDump.DefaultFormat != "hex" {
		t.Errorf("expected DefaultFormat=hex, got %s", loaded.ObjDump.DefaultFormat)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}
	if cfg.ObjDump.DefaultFormat != "disasm" {
		t.Error("expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[codegen]
allow_reserved_reloc_placeholder = "not a bool"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}
