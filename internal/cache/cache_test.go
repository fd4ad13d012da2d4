package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vaultctl/internal/listing"
)

func TestEntry(t *testing.T) {
	entry := NewEntry("k", json.RawMessage(`{"a":1}`), time.Minute)
	assert.False(t, entry.Expired())
	assert.Greater(t, entry.Remaining(), time.Duration(0))
	assert.LessOrEqual(t, entry.Age(), time.Second)

	t.Run("JSON", func(t *testing.T) {
		encoded, err := json.Marshal(entry)
		require.NoError(t, err)

		var decoded Entry
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, entry.Key, decoded.Key)
		assert.JSONEq(t, string(entry.Data), string(decoded.Data))
		assert.True(t, entry.ExpiresAt.Equal(decoded.ExpiresAt))
	})

	t.Run("Expired", func(t *testing.T) {
		entry.ExpiresAt = time.Now().Add(-time.Second)
		assert.True(t, entry.Expired())
		assert.Equal(t, time.Duration(0), entry.Remaining())
	})
}

const testVault = "https://vault.example.com"

func TestKeyFor(t *testing.T) {
	req := listing.PageRequest{PageNumber: 2, PageSize: 6, Keyword: "tax"}

	browse := KeyFor(testVault, "own", listing.ModeBrowse, req)
	assert.Len(t, browse, 64)
	assert.Equal(t, browse, KeyFor(testVault, " OWN ", listing.ModeBrowse, listing.PageRequest{PageNumber: 2, PageSize: 6}),
		"browse keys ignore the keyword")

	search := KeyFor(testVault, "own", listing.ModeSearch, req)
	assert.NotEqual(t, browse, search)
	assert.Equal(t, search, KeyFor(testVault, "own", listing.ModeSearch, listing.PageRequest{PageNumber: 2, PageSize: 6, Keyword: " tax "}))

	assert.NotEqual(t, browse, KeyFor(testVault, "received", listing.ModeBrowse, req))
	assert.NotEqual(t, browse, KeyFor(testVault, "own", listing.ModeBrowse, listing.PageRequest{PageNumber: 3, PageSize: 6}))
}

func TestKeyFor_BaseURL(t *testing.T) {
	req := listing.PageRequest{PageNumber: 1, PageSize: 6}
	key := KeyFor(testVault, "own", listing.ModeBrowse, req)

	tests := []struct {
		name    string
		baseURL string
		same    bool
	}{
		{name: "trailing slash", baseURL: testVault + "/", same: true},
		{name: "surrounding space", baseURL: " " + testVault + " ", same: true},
		{name: "other host", baseURL: "https://staging.example.com", same: false},
		{name: "other scheme", baseURL: "http://vault.example.com", same: false},
		{name: "empty", baseURL: "", same: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeyFor(tt.baseURL, "own", listing.ModeBrowse, req)
			if tt.same {
				assert.Equal(t, key, got)
				return
			}
			assert.NotEqual(t, key, got)
		})
	}
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	store, err := NewFileStore(dir, true, time.Minute, 0)
	require.NoError(t, err)
	assert.True(t, store.Enabled())
	assert.Equal(t, dir, store.Dir())

	data := json.RawMessage(`{"hello":"world"}`)

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, store.Set("a/b:c", data))
		entry, err := store.Get("a/b:c")
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(entry.Data))

		info, err := os.Stat(filepath.Join(dir, "a_b_c.json"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		st, err := store.Stats()
		require.NoError(t, err)
		assert.Equal(t, 1, st.Entries)
		assert.Positive(t, st.SizeBytes)
		assert.Equal(t, "disk", st.Tier)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete("a/b:c"))
		require.NoError(t, store.Delete("a/b:c"))
		_, err := store.Get("a/b:c")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		require.ErrorIs(t, store.Set("", data), ErrEmptyKey)
		_, err := store.Get("")
		require.ErrorIs(t, err, ErrEmptyKey)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Set("k1", data))
		require.NoError(t, store.Set("k2", data))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o600))

		require.NoError(t, store.Clear())
		st, err := store.Stats()
		require.NoError(t, err)
		assert.Zero(t, st.Entries)
		assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	})
}

func TestFileStore_Expiry(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, -time.Second, 0)
	require.NoError(t, err)
	data := json.RawMessage(`1`)

	require.NoError(t, store.Set("old", data))
	_, err = store.Get("old")
	require.ErrorIs(t, err, ErrExpired)
	_, err = store.Get("old")
	require.ErrorIs(t, err, ErrNotFound, "expired entries are removed on read")

	require.NoError(t, store.Set("a", data))
	require.NoError(t, store.Set("b", data))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0o600))

	st, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, st.Entries)
	assert.Equal(t, 3, st.Expired)

	removed, err := store.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
}

func TestFileStore_Prune(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, time.Minute, 2)
	require.NoError(t, err)

	for i, key := range []string{"first", "second", "third"} {
		require.NoError(t, store.Set(key, json.RawMessage(`1`)))
		// Distinct mtimes so the oldest is well defined.
		ts := time.Now().Add(time.Duration(i-10) * time.Minute)
		require.NoError(t, os.Chtimes(filepath.Join(dir, key+".json"), ts, ts))
	}
	require.NoError(t, store.Set("fourth", json.RawMessage(`1`)))

	_, err = store.Get("first")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get("second")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get("fourth")
	require.NoError(t, err)
}

func TestFileStore_Disabled(t *testing.T) {
	store, err := NewFileStore("", false, time.Minute, 0)
	require.NoError(t, err)
	assert.False(t, store.Enabled())
	require.ErrorIs(t, store.Set("k", json.RawMessage(`1`)), ErrDisabled)
	_, err = store.Get("k")
	require.ErrorIs(t, err, ErrDisabled)
	require.ErrorIs(t, store.Clear(), ErrDisabled)

	_, err = NewFileStore("", true, time.Minute, 0)
	require.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore(2, time.Minute)
	data := json.RawMessage(`{"x":1}`)

	require.NoError(t, m.Set("a", data))
	require.NoError(t, m.Set("b", data))
	require.NoError(t, m.Set("c", data))

	_, err := m.Get("a")
	require.ErrorIs(t, err, ErrNotFound, "least recently used entry is evicted")

	entry, err := m.Get("c")
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(entry.Data))

	st, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Entries)

	require.NoError(t, m.Clear())
	_, err = m.Get("c")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "90", want: 90 * time.Second},
		{in: "2m", want: 2 * time.Minute},
		{in: " 1h30m ", want: 90 * time.Minute},
		{in: "1", wantErr: true},
		{in: "48h", wantErr: true},
		{in: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "5m", FormatDuration(5*time.Minute))
	assert.Equal(t, "2m30s", FormatDuration(150*time.Second))
	assert.Equal(t, "2h30m", FormatDuration(150*time.Minute))
	assert.Equal(t, "3d", FormatDuration(72*time.Hour))
	assert.Equal(t, "3d2h", FormatDuration(74*time.Hour))
	require.ErrorIs(t, ValidateTTL(time.Second), ErrInvalidTTL)
}

type item struct {
	ID   int  `json:"id"`
	Flag bool `json:"flag"`
}

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) FetchPage(_ context.Context, _ listing.Mode, req listing.PageRequest) (listing.PagedResult[item], error) {
	s.calls++
	if s.err != nil {
		return listing.PagedResult[item]{}, s.err
	}
	return listing.PagedResult[item]{
		Records:  []item{{ID: req.PageNumber, Flag: true}},
		Metadata: listing.PageMetadata{PageNumber: req.PageNumber, PageSize: req.PageSize, TotalElements: 20, TotalPages: 4},
	}, nil
}

func TestCachingSource(t *testing.T) {
	ctx := context.Background()
	origin := &countingSource{}
	disk, err := NewFileStore(t.TempDir(), true, time.Minute, 0)
	require.NoError(t, err)
	mem := NewMemoryStore(16, time.Minute)
	src := NewCachingSource[item](origin, testVault, "own", mem, disk)

	req := listing.PageRequest{PageNumber: 2, PageSize: 6}
	first, err := src.FetchPage(ctx, listing.ModeBrowse, req)
	require.NoError(t, err)
	second, err := src.FetchPage(ctx, listing.ModeBrowse, req)
	require.NoError(t, err)

	assert.Equal(t, 1, origin.calls)
	assert.Equal(t, first, second)

	// A fresh memory tier is refilled from disk without reaching the origin.
	require.NoError(t, mem.Clear())
	_, err = src.FetchPage(ctx, listing.ModeBrowse, req)
	require.NoError(t, err)
	assert.Equal(t, 1, origin.calls)
	_, err = mem.Get(KeyFor(testVault, "own", listing.ModeBrowse, req))
	require.NoError(t, err)

	_, err = src.FetchPage(ctx, listing.ModeSearch, listing.PageRequest{PageNumber: 2, PageSize: 6, Keyword: "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, origin.calls)

	require.NoError(t, src.Invalidate())
	_, err = src.FetchPage(ctx, listing.ModeBrowse, req)
	require.NoError(t, err)
	assert.Equal(t, 3, origin.calls)
}

func TestCachingSource_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	origin := &countingSource{err: errors.New("offline")}
	src := NewCachingSource[item](origin, testVault, "own", NewMemoryStore(4, time.Minute))
	req := listing.PageRequest{PageNumber: 1, PageSize: 6}

	_, err := src.FetchPage(ctx, listing.ModeBrowse, req)
	require.Error(t, err)

	origin.err = nil
	res, err := src.FetchPage(ctx, listing.ModeBrowse, req)
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)
	assert.Equal(t, 2, origin.calls)
}

func TestCachingSource_SkipsDisabledTiers(t *testing.T) {
	disabled, err := NewFileStore("", false, time.Minute, 0)
	require.NoError(t, err)
	origin := &countingSource{}
	src := NewCachingSource[item](origin, testVault, "own", disabled, nil)

	req := listing.PageRequest{PageNumber: 1, PageSize: 6}
	for range 2 {
		_, err := src.FetchPage(context.Background(), listing.ModeBrowse, req)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, origin.calls)
	require.NoError(t, src.Invalidate())
}

func TestCachingSource_RefreshBypassesTiers(t *testing.T) {
	ctx := context.Background()
	origin := &countingSource{}
	disk, err := NewFileStore(t.TempDir(), true, time.Minute, 0)
	require.NoError(t, err)
	mem := NewMemoryStore(16, time.Minute)
	src := NewCachingSource[item](origin, testVault, "own", mem, disk)
	req := listing.PageRequest{PageNumber: 1, PageSize: 6}

	_, err = src.FetchPage(ctx, listing.ModeBrowse, req)
	require.NoError(t, err)
	require.Equal(t, 1, origin.calls)

	tests := []struct {
		name      string
		ctx       context.Context
		wantCalls int
	}{
		{name: "plain fetch hits cache", ctx: ctx, wantCalls: 1},
		{name: "refresh reaches origin", ctx: listing.WithRefresh(ctx), wantCalls: 2},
		{name: "refresh again", ctx: listing.WithRefresh(ctx), wantCalls: 3},
		{name: "later fetch hits cache", ctx: ctx, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.FetchPage(tt.ctx, listing.ModeBrowse, req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, origin.calls)
		})
	}

	// The refreshed page was written through to both tiers.
	key := KeyFor(testVault, "own", listing.ModeBrowse, req)
	_, err = mem.Get(key)
	require.NoError(t, err)
	_, err = disk.Get(key)
	require.NoError(t, err)
}

func TestCachingSource_VaultsDoNotShareEntries(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore(16, time.Minute)
	prodOrigin := &countingSource{}
	stagingOrigin := &countingSource{}
	prod := NewCachingSource[item](prodOrigin, testVault, "own", mem)
	staging := NewCachingSource[item](stagingOrigin, "https://staging.example.com", "own", mem)
	req := listing.PageRequest{PageNumber: 1, PageSize: 6}

	_, err := prod.FetchPage(ctx, listing.ModeBrowse, req)
	require.NoError(t, err)
	_, err = staging.FetchPage(ctx, listing.ModeBrowse, req)
	require.NoError(t, err)

	assert.Equal(t, 1, prodOrigin.calls)
	assert.Equal(t, 1, stagingOrigin.calls, "a page cached for one vault must not serve another")
}
