package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rshade/vaultctl/internal/cache"
	"github.com/rshade/vaultctl/internal/config"
	"github.com/rshade/vaultctl/internal/listing"
	"github.com/rshade/vaultctl/internal/logging"
	"github.com/rshade/vaultctl/internal/session"
	"github.com/rshade/vaultctl/internal/vault"
)

// sessionStore opens the session file in the config directory.
func sessionStore() (*session.Store, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	return session.NewStore(dir), nil
}

// newClient builds an unauthenticated client from the global config.
func newClient() (*vault.Client, error) {
	cfg := config.GetGlobalConfig()
	client, err := vault.NewClient(cfg.Server.BaseURL, vault.WithTimeout(cfg.Timeout()))
	if err != nil {
		return nil, usageError(err)
	}
	return client, nil
}

// authenticatedClient builds a client and restores the saved session cookies.
// A session saved for another server counts as no session.
func authenticatedClient(ctx context.Context) (*vault.Client, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	store, err := sessionStore()
	if err != nil {
		return nil, err
	}
	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	if state.BaseURL != "" && state.BaseURL != client.BaseURL() {
		return nil, fmt.Errorf("%w: saved session is for %s, not %s",
			session.ErrNoSession, state.BaseURL, client.BaseURL())
	}

	client.SetCookies(state.HTTPCookies())
	logger := logging.FromContext(ctx)
	logger.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("username", state.Username).
		Str("base_url", client.BaseURL()).
		Msg("session restored")
	return client, nil
}

// pageCache holds the cache tiers shared by the engines of one command.
type pageCache struct {
	memory *cache.MemoryStore
	disk   *cache.FileStore
}

// newPageCache opens the configured cache tiers. A disabled cache yields an
// empty pageCache whose sources forward straight to the backend.
func newPageCache(cfg *config.Config) (*pageCache, error) {
	if !cfg.Cache.Enabled {
		return &pageCache{}, nil
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	disk, err := cache.NewFileStore(dir, true, cfg.CacheTTL(), cfg.Cache.MaxEntries)
	if err != nil {
		return nil, err
	}
	return &pageCache{
		memory: cache.NewMemoryStore(cfg.Cache.MaxEntries, cfg.CacheTTL()),
		disk:   disk,
	}, nil
}

// source wraps origin with the cache tiers, memory first. Pages are keyed by
// baseURL so two vaults never share entries.
func (p *pageCache) source(baseURL string, origin *vault.Source) listing.DataSource[vault.File] {
	if p.memory == nil && p.disk == nil {
		return origin
	}
	return cache.NewCachingSource[vault.File](origin, baseURL, origin.Collection().String(), p.memory, p.disk)
}

// newFileEngine builds the listing engine for one collection.
func newFileEngine(
	client *vault.Client,
	collection vault.Collection,
	cfg *config.Config,
	pc *pageCache,
) (*listing.Engine[vault.File], error) {
	return listing.NewEngine[vault.File](
		pc.source(client.BaseURL(), vault.NewSource(client, collection)),
		cfg.Listing.PageSize,
		listing.WithName(collection.String()),
		listing.WithRangeDelta(cfg.Listing.RangeDelta),
		listing.WithFilter(cfg.FilterMode()),
	)
}

// invalidateCache drops cached pages after a mutation. It clears the cache
// directory even when caching is currently disabled, since pages may remain
// from earlier runs.
func invalidateCache(ctx context.Context) {
	cfg := config.GetGlobalConfig()
	dir, err := cfg.CacheDir()
	if err != nil {
		return
	}
	if _, statErr := os.Stat(dir); statErr != nil {
		return
	}

	log := logging.FromContext(ctx)
	store, err := cache.NewFileStore(dir, true, cfg.CacheTTL(), cfg.Cache.MaxEntries)
	if err == nil {
		err = store.Clear()
	}
	if err != nil {
		log.Warn().Ctx(ctx).Str("component", "cli").Err(err).Msg("failed to invalidate page cache")
		return
	}
	log.Debug().Ctx(ctx).Str("component", "cli").Str("dir", dir).Msg("page cache invalidated")
}
