// Package config holds all disclose configuration: where the index document
// comes from, how the browser renders, and how loudly we log.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Browse  BrowseConfig  `yaml:"browse"`
	PDFs    PDFConfig     `yaml:"pdfs"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig says where the index document lives. Path wins when both are
// set; URL is fetched once, best effort, no retry.
type SourceConfig struct {
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

// BrowseConfig tunes the interactive table.
type BrowseConfig struct {
	// DebounceMS is the pause after the last keystroke before a filter
	// pass runs. Enter commits immediately.
	DebounceMS int `yaml:"debounce_ms"`

	// BufferRows render beyond the visible viewport to avoid blank
	// flashes during fast scrolling.
	BufferRows int `yaml:"buffer_rows"`

	// VirtualizeThreshold is the view length above which only the
	// visible window of rows is materialized.
	VirtualizeThreshold int `yaml:"virtualize_threshold"`

	// WatchSource reloads the dataset when the local index file changes.
	WatchSource bool `yaml:"watch_source"`
}

// PDFConfig tunes the filing-PDF downloader.
type PDFConfig struct {
	Dir         string `yaml:"dir"`
	Concurrency int    `yaml:"concurrency"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Verbose bool   `yaml:"verbose"`
	File    string `yaml:"file"` // empty logs to stderr
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Source: SourceConfig{
			URL: "https://disclosures-clerk.house.gov/public_disc/financial-pdfs/2025FD.xml",
		},
		Browse: BrowseConfig{
			DebounceMS:          300,
			BufferRows:          5,
			VirtualizeThreshold: 200,
		},
		PDFs: PDFConfig{
			Dir:         "pdf_downloads",
			Concurrency: 4,
		},
	}
}

// Load reads path on top of the defaults, then applies DISCLOSE_*
// environment overrides. A missing file is not an error; a malformed one
// is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		case os.IsNotExist(err):
			// fall through to env overrides
		default:
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv lets environment variables override file values, mirroring the
// yaml structure with DISCLOSE_<SECTION>_<KEY>.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DISCLOSE_SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("DISCLOSE_SOURCE_PATH"); v != "" {
		cfg.Source.Path = v
	}
	if v := os.Getenv("DISCLOSE_BROWSE_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Browse.DebounceMS = n
		}
	}
	if v := os.Getenv("DISCLOSE_PDFS_DIR"); v != "" {
		cfg.PDFs.Dir = v
	}
	if v := os.Getenv("DISCLOSE_LOGGING_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.Verbose = b
		}
	}
}

// Validate rejects values the pipeline cannot work with.
func (c Config) Validate() error {
	if c.Source.URL == "" && c.Source.Path == "" {
		return fmt.Errorf("config: source.url or source.path required")
	}
	if c.Browse.DebounceMS < 0 {
		return fmt.Errorf("config: browse.debounce_ms must be >= 0")
	}
	if c.Browse.BufferRows < 0 {
		return fmt.Errorf("config: browse.buffer_rows must be >= 0")
	}
	if c.Browse.VirtualizeThreshold < 1 {
		return fmt.Errorf("config: browse.virtualize_threshold must be >= 1")
	}
	if c.PDFs.Concurrency < 1 {
		return fmt.Errorf("config: pdfs.concurrency must be >= 1")
	}
	return nil
}
