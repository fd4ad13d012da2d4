package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTTL is how long a page stays cached when nothing else is configured.
	DefaultTTL = 2 * time.Minute

	// MinTTL and MaxTTL bound configured TTLs.
	MinTTL = 5 * time.Second
	MaxTTL = 24 * time.Hour

	// DefaultMaxEntries bounds the memory tier and the file tier.
	DefaultMaxEntries = 256
)

// ErrInvalidTTL is returned for a TTL outside [MinTTL, MaxTTL].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %s and %s", FormatDuration(MinTTL), FormatDuration(MaxTTL))

// ValidateTTL checks d against MinTTL and MaxTTL.
func ValidateTTL(d time.Duration) error {
	if d < MinTTL || d > MaxTTL {
		return fmt.Errorf("%w: got %s", ErrInvalidTTL, d)
	}
	return nil
}

// ParseTTL accepts integer seconds ("90") or a Go duration ("2m", "1h30m").
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	var d time.Duration
	if seconds, err := strconv.Atoi(s); err == nil {
		d = time.Duration(seconds) * time.Second
	} else {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return 0, fmt.Errorf("invalid TTL %q: %w", s, perr)
		}
		d = parsed
	}

	if err := ValidateTTL(d); err != nil {
		return 0, err
	}
	return d, nil
}

// FormatDuration renders d compactly: 45s, 5m, 2h30m, 3d2h.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		m := int(d.Minutes())
		if s := int(d.Seconds()) % 60; s != 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if m := int(d.Minutes()) % 60; m != 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	default:
		days := int(d.Hours()) / 24
		if h := int(d.Hours()) % 24; h != 0 {
			return fmt.Sprintf("%dd%dh", days, h)
		}
		return fmt.Sprintf("%dd", days)
	}
}
