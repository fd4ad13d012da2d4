package session

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the session file inside the config directory.
const FileName = "session.yaml"

// ErrNoSession is returned by Load when no session was saved.
var ErrNoSession = errors.New("not signed in")

// Cookie is the persisted form of one session cookie.
type Cookie struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// State is what a signed-in run leaves behind.
type State struct {
	Username    string    `yaml:"username"`
	BaseURL     string    `yaml:"base_url"`
	OTPVerified bool      `yaml:"otp_verified"`
	Cookies     []Cookie  `yaml:"cookies,omitempty"`
	SavedAt     time.Time `yaml:"saved_at"`
}

// HTTPCookies converts the persisted cookies for a cookie jar.
func (s State) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	return out
}

// FromHTTPCookies converts jar cookies for persistence.
func FromHTTPCookies(cookies []*http.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Store reads and writes the session file. The file holds a live session cookie,
// so it is written 0600.
type Store struct {
	path string
}

// NewStore returns a store for dir/session.yaml.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved session. A missing file returns ErrNoSession.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, ErrNoSession
		}
		return State{}, fmt.Errorf("reading session: %w", err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parsing session %s: %w", s.path, err)
	}
	if !st.OTPVerified || st.Username == "" {
		return State{}, ErrNoSession
	}
	return st, nil
}

// Save writes st atomically.
func (s *Store) Save(st State) error {
	if st.SavedAt.IsZero() {
		st.SavedAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear removes the saved session. Clearing a missing session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
