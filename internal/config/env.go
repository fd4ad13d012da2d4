package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/vaultctl/internal/cache"
)

// Environment overrides.
const (
	EnvBaseURL      = "VAULTCTL_BASE_URL"
	EnvLogLevel     = "VAULTCTL_LOG_LEVEL"
	EnvLogFile      = "VAULTCTL_LOG_FILE"
	EnvPageSize     = "VAULTCTL_PAGE_SIZE"
	EnvCacheEnabled = "VAULTCTL_CACHE_ENABLED"
	EnvCacheTTL     = "VAULTCTL_CACHE_TTL"
	EnvCacheDir     = "VAULTCTL_CACHE_DIR"
)

// ApplyEnv overlays VAULTCTL_* variables. Unparseable values are reported on
// stderr and skipped.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.Server.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		c.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPageSize)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Listing.PageSize = n
		} else {
			envWarning(EnvPageSize, v)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheEnabled)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		} else {
			envWarning(EnvCacheEnabled, v)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheTTL)); v != "" {
		if d, err := cache.ParseTTL(v); err == nil {
			c.Cache.TTLSeconds = int(d / time.Second)
		} else {
			envWarning(EnvCacheTTL, v)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheDir)); v != "" {
		c.Cache.Directory = v
	}
}

func envWarning(name, value string) {
	fmt.Fprintf(os.Stderr, "warning: ignoring invalid %s=%q\n", name, value)
}
