package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/pic2ascii/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.BlockWidth != 8 || cfg.BlockHeight != 16 {
		t.Errorf("Expected 8x16 blocks, got %dx%d", cfg.BlockWidth, cfg.BlockHeight)
	}
	if cfg.Dark {
		t.Error("Expected light background by default")
	}
	if cfg.OutputPath != "output.txt" {
		t.Errorf("Expected output.txt, got %s", cfg.OutputPath)
	}
	if cfg.Workers < 1 {
		t.Errorf("Expected at least one worker, got %d", cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "pic2ascii.yaml",
			content: `block_width: 4
block_height: 6
dark: true
output: art.txt
`,
		},
		{
			name: "toml",
			file: "pic2ascii.toml",
			content: `block_width = 4
block_height = 6
dark = true
output = "art.txt"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.BlockWidth != 4 || cfg.BlockHeight != 6 {
				t.Errorf("Expected 4x6 blocks, got %dx%d", cfg.BlockWidth, cfg.BlockHeight)
			}
			if !cfg.Dark {
				t.Error("Expected dark background")
			}
			if cfg.OutputPath != "art.txt" {
				t.Errorf("Expected art.txt, got %s", cfg.OutputPath)
			}
			// Untouched keys keep their defaults
			if cfg.DPI != DefaultDPI || cfg.QRLevel != DefaultQRLevel {
				t.Errorf("Expected defaults for dpi and qr level, got %d and %s", cfg.DPI, cfg.QRLevel)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	ini := filepath.Join(dir, "config.ini")
	os.WriteFile(ini, []byte("block_width=4"), 0644)
	if _, err := Load(ini); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Expected INVALID_FORMAT for .ini, got %v", err)
	}

	broken := filepath.Join(dir, "broken.yaml")
	os.WriteFile(broken, []byte("block_width: [oops"), 0644)
	if _, err := Load(broken); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Expected INVALID_FORMAT for broken yaml, got %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   errors.Code
	}{
		{"zero block width", func(c *Config) { c.BlockWidth = 0 }, errors.ErrCodeInvalidParameter},
		{"zero block height", func(c *Config) { c.BlockHeight = 0 }, errors.ErrCodeInvalidParameter},
		{"empty output", func(c *Config) { c.OutputPath = "" }, errors.ErrCodeInvalidInput},
		{"zero dpi", func(c *Config) { c.DPI = 0 }, errors.ErrCodeInvalidParameter},
		{"bad qr level", func(c *Config) { c.QRLevel = "ultra" }, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.code) {
				t.Errorf("Expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestValidateClampsWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	cfg.RowWorkers = -3

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Workers != 1 || cfg.RowWorkers != 1 {
		t.Errorf("Expected workers clamped to 1, got %d and %d", cfg.Workers, cfg.RowWorkers)
	}
}

func TestToStdout(t *testing.T) {
	cfg := Default()
	if cfg.ToStdout() {
		t.Error("output.txt is not stdout")
	}
	cfg.OutputPath = "-"
	if !cfg.ToStdout() {
		t.Error("- should mean stdout")
	}
}
