// Package config loads, validates and saves vaultctl configuration.
//
// Values are layered: built-in defaults, then ~/.vaultctl/config.yaml, then a
// project overlay (.vaultctl/config.yaml found from the working directory), then
// VAULTCTL_* environment variables. CLI flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/vaultctl/internal/cache"
	"github.com/rshade/vaultctl/internal/listing"
	"github.com/rshade/vaultctl/internal/logging"
)

// Defaults.
const (
	DefaultBaseURL        = "http://localhost:8080"
	DefaultTimeoutSeconds = 30
	DefaultPageSize       = 6
	MaxPageSize           = 100
	DefaultOutputFormat   = "table"
	DefaultLogLevel       = "warn"
	configFileName        = "config.yaml"
)

// OutputFormats lists the accepted output.default_format values.
func OutputFormats() []string {
	return []string{"table", "json", "ndjson"}
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full vaultctl configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Listing ListingConfig `yaml:"listing"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`

	path string
}

// ServerConfig locates the vault backend.
type ServerConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ListingConfig tunes the listing engine.
type ListingConfig struct {
	PageSize      int    `yaml:"page_size"`
	RangeDelta    int    `yaml:"range_delta"`
	DefaultFilter string `yaml:"default_filter"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// CacheConfig controls the page cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	MaxEntries int    `yaml:"max_entries"`
	Directory  string `yaml:"directory,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Listing: ListingConfig{
			PageSize:      DefaultPageSize,
			RangeDelta:    listing.DefaultRangeDelta,
			DefaultFilter: listing.FilterAll.String(),
		},
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: logging.FormatConsole,
		},
		Cache: CacheConfig{
			Enabled:    false,
			TTLSeconds: int(cache.DefaultTTL / time.Second),
			MaxEntries: cache.DefaultMaxEntries,
		},
	}
}

// New returns the effective configuration: defaults, the user config file when
// present, then environment overrides. A broken config file is reported on stderr
// and ignored.
func New() *Config {
	cfg := Default()
	if dir, err := GetConfigDir(); err == nil {
		cfg.path = filepath.Join(dir, configFileName)
		if err := cfg.loadFile(cfg.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: ignoring %s: %v\n", cfg.path, err)
			fresh := Default()
			fresh.path = cfg.path
			cfg = fresh
		}
	}
	cfg.ApplyEnv()
	return cfg
}

// Load reads path on top of the defaults without applying the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Path returns the file this configuration was loaded from or will be saved to.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Save writes the configuration as YAML through a temp file and a rename.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config path not set")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// Validate reports every problem at once, each wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if u, err := url.Parse(c.Server.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fail("server.base_url %q must be an http(s) URL", c.Server.BaseURL)
	}
	if c.Server.TimeoutSeconds <= 0 {
		fail("server.timeout_seconds must be positive, got %d", c.Server.TimeoutSeconds)
	}
	if c.Listing.PageSize <= 0 || c.Listing.PageSize > MaxPageSize {
		fail("listing.page_size must be between 1 and %d, got %d", MaxPageSize, c.Listing.PageSize)
	}
	if c.Listing.RangeDelta < 0 {
		fail("listing.range_delta must not be negative, got %d", c.Listing.RangeDelta)
	}
	if _, err := listing.ParseFilterMode(c.Listing.DefaultFilter); err != nil {
		fail("listing.default_filter: %v", err)
	}
	if !slices.Contains(OutputFormats(), strings.ToLower(c.Output.DefaultFormat)) {
		fail("output.default_format %q must be one of %s", c.Output.DefaultFormat, strings.Join(OutputFormats(), ", "))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		fail("logging.level: %v", err)
	}
	if f := c.Logging.Format; f != "" && f != logging.FormatJSON && f != logging.FormatConsole {
		fail("logging.format %q must be %s or %s", f, logging.FormatJSON, logging.FormatConsole)
	}
	if err := cache.ValidateTTL(c.CacheTTL()); err != nil {
		fail("cache.ttl_seconds: %v", err)
	}
	if c.Cache.MaxEntries < 0 {
		fail("cache.max_entries must not be negative, got %d", c.Cache.MaxEntries)
	}

	return errors.Join(errs...)
}

// Timeout returns the request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// FilterMode returns the parsed default filter, falling back to FilterAll.
func (c *Config) FilterMode() listing.FilterMode {
	mode, err := listing.ParseFilterMode(c.Listing.DefaultFilter)
	if err != nil {
		return listing.FilterAll
	}
	return mode
}

// CacheDir returns the cache directory, defaulting to <config dir>/cache.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Directory != "" {
		return c.Cache.Directory, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}
