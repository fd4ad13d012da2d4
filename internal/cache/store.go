package cache

import (
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound is returned for a key that was never stored or was evicted.
	ErrNotFound = errors.New("cache entry not found")
	// ErrExpired is returned for an entry past its TTL.
	ErrExpired = errors.New("cache entry expired")
	// ErrEmptyKey is returned for an empty key.
	ErrEmptyKey = errors.New("cache key cannot be empty")
	// ErrDisabled is returned by every operation of a disabled FileStore.
	ErrDisabled = errors.New("cache is disabled")
)

// Store is one cache tier.
type Store interface {
	Get(key string) (*Entry, error)
	Set(key string, data json.RawMessage) error
	Clear() error
	Stats() (Stats, error)
}

// Stats summarizes one tier.
type Stats struct {
	Tier      string `json:"tier"       yaml:"tier"`
	Entries   int    `json:"entries"    yaml:"entries"`
	Expired   int    `json:"expired"    yaml:"expired"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`
}
