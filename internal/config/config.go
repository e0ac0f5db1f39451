package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/pic2ascii/internal/errors"
	"github.com/ivlev/pic2ascii/internal/system"
)

const (
	DefaultOutput       = "output.txt"
	DefaultBlockWidth   = 8
	DefaultBlockHeight  = 16
	DefaultDPI          = 150
	DefaultQRSize       = 256
	DefaultQRLevel      = "medium"
	DefaultBenchmarkLog = "benchmark.log"
	DefaultInputDir     = "input"
)

type Config struct {
	InputPath    string `yaml:"input" toml:"input"`
	OutputPath   string `yaml:"output" toml:"output"`
	BlockWidth   int    `yaml:"block_width" toml:"block_width"`
	BlockHeight  int    `yaml:"block_height" toml:"block_height"`
	Dark         bool   `yaml:"dark" toml:"dark"`
	DPI          int    `yaml:"dpi" toml:"dpi"`
	Workers      int    `yaml:"workers" toml:"workers"`
	RowWorkers   int    `yaml:"row_workers" toml:"row_workers"`
	QRText       string `yaml:"qr" toml:"qr"`
	QRSize       int    `yaml:"qr_size" toml:"qr_size"`
	QRLevel      string `yaml:"qr_level" toml:"qr_level"`
	ShowStats    bool   `yaml:"stats" toml:"stats"`
	BenchmarkLog string `yaml:"benchmark_log" toml:"benchmark_log"`
	Pause        bool   `yaml:"pause" toml:"pause"`
	BuildVersion string `yaml:"-" toml:"-"`
}

// Default returns the settings used when neither a file nor a flag says otherwise.
func Default() *Config {
	return &Config{
		OutputPath:   DefaultOutput,
		BlockWidth:   DefaultBlockWidth,
		BlockHeight:  DefaultBlockHeight,
		DPI:          DefaultDPI,
		Workers:      system.DefaultWorkers(),
		RowWorkers:   1,
		QRSize:       DefaultQRSize,
		QRLevel:      DefaultQRLevel,
		BenchmarkLog: DefaultBenchmarkLog,
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over Default().
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format: %s (must be .yaml, .yml or .toml)", path)
	}

	return cfg, nil
}

// Validate rejects settings the engine cannot run with. Worker counts below
// one are raised to one.
func (c *Config) Validate() error {
	if c.BlockWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "block width must be positive, got %d", c.BlockWidth)
	}
	if c.BlockHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "block height must be positive, got %d", c.BlockHeight)
	}
	if c.OutputPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "output path is empty")
	}
	if c.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "dpi must be positive, got %d", c.DPI)
	}
	if c.QRSize <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "qr size must be positive, got %d", c.QRSize)
	}
	switch strings.ToLower(c.QRLevel) {
	case "low", "medium", "high", "highest":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown qr level: %s (must be low, medium, high or highest)", c.QRLevel)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.RowWorkers < 1 {
		c.RowWorkers = 1
	}
	return nil
}

// ToStdout reports whether output goes to standard output instead of a file.
func (c *Config) ToStdout() bool {
	return c.OutputPath == "-"
}
