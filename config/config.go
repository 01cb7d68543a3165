// Package config loads and saves arm64cg's TOML configuration, grounded
// on the teacher's config/config.go: the same struct-of-sections shape,
// the same DefaultConfig/Load/LoadFrom/Save/SaveTo surface, and the same
// platform-specific config-path resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds arm64cg's persisted settings.
type Config struct {
	// CodeGen settings tune the core lowering/register-allocation
	// pipeline.
	CodeGen struct {
		// AllowReservedRelocPlaceholder mirrors
		// lower.Options.AllowReservedRelocPlaceholder: when true, adrp/
		// add_pageoff/literal_19 relocations are left unpatched for a
		// downstream linker instead of hard-erroring.
		AllowReservedRelocPlaceholder bool `toml:"allow_reserved_reloc_placeholder"`

		// GeneralPurposeOrder and VectorOrder override regmgr's default
		// scan order: a comma-separated register name list (e.g.
		// "x9,x10,x11"), matching the teacher's Trace.FilterRegs
		// comma-separated-list convention. Empty means "use the
		// documented default order".
		GeneralPurposeOrder string `toml:"general_purpose_order"`
		VectorOrder         string `toml:"vector_order"`
	} `toml:"codegen"`

	// TUI settings for mirview.
	TUI struct {
		ColorOutput bool   `toml:"color_output"`
		Theme       string `toml:"theme"` // "dark", "light", "mono"
	} `toml:"tui"`

	// ObjDump settings for the objdump viewer.
	ObjDump struct {
		DefaultFormat string `toml:"default_format"` // "hex", "disasm"
		BytesPerLine  int    `toml:"bytes_per_line"`
	} `toml:"objdump"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.CodeGen.AllowReservedRelocPlaceholder = false
	cfg.CodeGen.GeneralPurposeOrder = ""
	cfg.CodeGen.VectorOrder = ""

	cfg.TUI.ColorOutput = true
	cfg.TUI.Theme = "dark"

	cfg.ObjDump.DefaultFormat = "disasm"
	cfg.ObjDump.BytesPerLine = 16

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\arm64cg\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "arm64cg")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/arm64cg/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "arm64cg")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: it yields the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
