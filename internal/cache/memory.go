package cache

import (
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is an in-process LRU whose entries expire after a fixed TTL.
type MemoryStore struct {
	lru *expirable.LRU[string, *Entry]
	ttl time.Duration
}

// NewMemoryStore creates a store holding at most size entries.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		lru: expirable.NewLRU[string, *Entry](size, nil, ttl),
		ttl: ttl,
	}
}

// Get returns the entry for key.
func (m *MemoryStore) Get(key string) (*Entry, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	entry, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	if entry.Expired() {
		m.lru.Remove(key)
		return nil, ErrExpired
	}
	return entry, nil
}

// Set stores data under key.
func (m *MemoryStore) Set(key string, data json.RawMessage) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.lru.Add(key, NewEntry(key, data, m.ttl))
	return nil
}

// Clear drops every entry.
func (m *MemoryStore) Clear() error {
	m.lru.Purge()
	return nil
}

// Stats reports the live entries.
func (m *MemoryStore) Stats() (Stats, error) {
	st := Stats{Tier: "memory"}
	for _, entry := range m.lru.Values() {
		st.Entries++
		st.SizeBytes += int64(len(entry.Data))
	}
	return st, nil
}

var _ Store = (*MemoryStore)(nil)
