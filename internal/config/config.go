// Package config loads the settings shared by the data3d command line tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"runtime"

	"github.com/data3d-io/data3d/internal/fsutil"
	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the location of the configuration file when none is given.
const DefaultPath = "~/.config/data3d/config.toml"

// Output formats.
const (
	FormatJSON   = "json"
	FormatBuffer = "buffer"
)

// Config holds the settings of the command line tools. Zero values mean
// "unset" when merging.
type Config struct {
	// Format is the output format of conversions: json or buffer. Empty
	// converts each file to the format it is not in.
	Format string `toml:"format"`

	// Indent is the number of spaces per indentation level of written
	// structures.
	Indent int `toml:"indent"`

	// Exporter is written to the meta section of generated documents.
	Exporter string `toml:"exporter"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// Workers is the number of files converted concurrently.
	Workers int `toml:"workers"`

	// Compress frames outputs with LZ4.
	Compress bool `toml:"compress"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Indent:   4,
		Exporter: "data3d",
		LogLevel: "info",
		Workers:  runtime.NumCPU(),
	}
}

// Load returns the default settings overridden by the configuration file at
// path. A leading ~ in path is expanded to the home directory. A missing
// file is not an error. Unknown keys are.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return cfg, err
	}
	b, err := fsutil.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := Decode(bytes.NewReader(b), &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode reads TOML settings from r into cfg. Keys absent from r leave the
// corresponding fields of cfg untouched.
func Decode(r io.Reader, cfg *Config) error {
	return toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
}

// Encode writes cfg to w as TOML.
func (cfg Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Merge overrides the settings of cfg with the non-empty settings of flags.
func (cfg *Config) Merge(flags Config) error {
	return copier.CopyWithOption(cfg, &flags, copier.Option{IgnoreEmpty: true})
}

// Validate checks that the settings are usable.
func (cfg Config) Validate() error {
	switch cfg.Format {
	case "", FormatJSON, FormatBuffer:
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
	if cfg.Indent < 0 {
		return fmt.Errorf("negative indent %d", cfg.Indent)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("negative worker count %d", cfg.Workers)
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the log level named by LogLevel. An empty name is info.
func (cfg Config) Level() (slog.Level, error) {
	var level slog.Level
	if cfg.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// WorkerCount returns the number of workers to use, at least 1.
func (cfg Config) WorkerCount() int {
	if cfg.Workers <= 0 {
		return runtime.NumCPU()
	}
	return cfg.Workers
}
