package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const entryExt = ".json"

// FileStore keeps entries as one JSON file per key. Writes go through a temp file
// and a rename so a crashed run never leaves a half-written entry. It is safe for
// concurrent use within one process.
type FileStore struct {
	dir        string
	enabled    bool
	ttl        time.Duration
	maxEntries int

	mu sync.RWMutex
}

// NewFileStore opens (and creates) a file store in dir. A disabled store is
// returned without touching the filesystem.
func NewFileStore(dir string, enabled bool, ttl time.Duration, maxEntries int) (*FileStore, error) {
	if !enabled {
		return &FileStore{}, nil
	}
	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{
		dir:        dir,
		enabled:    true,
		ttl:        ttl,
		maxEntries: maxEntries,
	}, nil
}

// Enabled reports whether the store is active.
func (s *FileStore) Enabled() bool {
	return s.enabled
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Get returns the entry for key. Expired entries are removed and reported as
// ErrExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrEmptyKey
	}

	path := s.pathFor(key)
	s.mu.RLock()
	entry, err := readEntry(path)
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if entry.Expired() {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return entry, nil
}

// Set writes data under key, pruning the oldest files when the store is over
// its entry limit.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrEmptyKey
	}

	buf, err := json.Marshal(NewEntry(key, data, s.ttl))
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o600); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("saving cache entry: %w", err)
	}
	return s.pruneLocked()
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.pathFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *FileStore) Clear() error {
	if !s.enabled {
		return ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.entryFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", filepath.Base(f.path), err)
		}
	}
	return nil
}

// CleanupExpired removes expired and unreadable entries and returns how many
// were removed.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.entryFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		entry, readErr := readEntry(f.path)
		if readErr == nil && !entry.Expired() {
			continue
		}
		if os.Remove(f.path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats reports entry count, expired count and size on disk.
func (s *FileStore) Stats() (Stats, error) {
	st := Stats{Tier: "disk", Location: s.dir}
	if !s.enabled {
		return st, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.entryFiles()
	if err != nil {
		return st, err
	}
	for _, f := range files {
		st.Entries++
		st.SizeBytes += f.size
		if entry, readErr := readEntry(f.path); readErr != nil || entry.Expired() {
			st.Expired++
		}
	}
	return st, nil
}

type entryFile struct {
	path    string
	size    int64
	modTime time.Time
}

func (s *FileStore) entryFiles() ([]entryFile, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	files := make([]entryFile, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != entryExt {
			continue
		}
		info, infoErr := de.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, entryFile{
			path:    filepath.Join(s.dir, de.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

// pruneLocked drops the least recently written files beyond maxEntries.
func (s *FileStore) pruneLocked() error {
	if s.maxEntries <= 0 {
		return nil
	}
	files, err := s.entryFiles()
	if err != nil || len(files) <= s.maxEntries {
		return err
	}

	slices.SortFunc(files, func(a, b entryFile) int {
		return a.modTime.Compare(b.modTime)
	})
	for _, f := range files[:len(files)-s.maxEntries] {
		_ = os.Remove(f.path)
	}
	return nil
}

func (s *FileStore) pathFor(key string) string {
	safe := strings.NewReplacer("/", "_", `\`, "_", ":", "_").Replace(key)
	return filepath.Join(s.dir, safe+entryExt)
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry %s: %w", filepath.Base(path), err)
	}
	return &entry, nil
}

var _ Store = (*FileStore)(nil)
