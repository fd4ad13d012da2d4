package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rshade/vaultctl/internal/listing"
	"github.com/rshade/vaultctl/internal/logging"
)

// CachingSource serves pages from its tiers before asking the origin. Tiers are
// consulted in order; a hit in a later tier is copied into the earlier ones.
// Fetches whose context is marked with listing.WithRefresh skip the tiers but
// still write the fresh page through.
type CachingSource[R any] struct {
	origin     listing.DataSource[R]
	baseURL    string
	collection string
	tiers      []Store
}

// NewCachingSource wraps origin, the collection served by the vault at baseURL.
// With no tiers it simply forwards.
func NewCachingSource[R any](
	origin listing.DataSource[R],
	baseURL, collection string,
	tiers ...Store,
) *CachingSource[R] {
	live := make([]Store, 0, len(tiers))
	for _, t := range tiers {
		if t == nil {
			continue
		}
		if fs, ok := t.(*FileStore); ok && (fs == nil || !fs.Enabled()) {
			continue
		}
		live = append(live, t)
	}
	return &CachingSource[R]{origin: origin, baseURL: baseURL, collection: collection, tiers: live}
}

// FetchPage implements listing.DataSource.
func (c *CachingSource[R]) FetchPage(
	ctx context.Context,
	mode listing.Mode,
	req listing.PageRequest,
) (listing.PagedResult[R], error) {
	log := logging.FromContext(ctx).With().
		Str("component", "cache").
		Str("collection", c.collection).
		Logger()
	key := KeyFor(c.baseURL, c.collection, mode, req)

	tiers := c.tiers
	if listing.IsRefresh(ctx) {
		log.Debug().Ctx(ctx).Int("page", req.PageNumber).Msg("refresh requested, bypassing cache")
		tiers = nil
	}
	for i, tier := range tiers {
		entry, err := tier.Get(key)
		if err != nil {
			if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExpired) {
				log.Warn().Ctx(ctx).Err(err).Msg("cache read failed")
			}
			continue
		}

		var result listing.PagedResult[R]
		if err := json.Unmarshal(entry.Data, &result); err != nil {
			log.Warn().Ctx(ctx).Err(err).Msg("discarding undecodable cache entry")
			continue
		}
		log.Debug().Ctx(ctx).Int("tier", i).Int("page", req.PageNumber).Msg("cache hit")
		c.store(ctx, c.tiers[:i], key, entry.Data)
		return result, nil
	}

	result, err := c.origin.FetchPage(ctx, mode, req)
	if err != nil {
		return listing.PagedResult[R]{}, err
	}

	if len(c.tiers) > 0 {
		data, encErr := json.Marshal(result)
		if encErr != nil {
			log.Warn().Ctx(ctx).Err(encErr).Msg("page not cacheable")
			return result, nil
		}
		c.store(ctx, c.tiers, key, data)
	}
	return result, nil
}

func (c *CachingSource[R]) store(ctx context.Context, tiers []Store, key string, data json.RawMessage) {
	for _, tier := range tiers {
		if err := tier.Set(key, data); err != nil {
			logger := logging.FromContext(ctx)
			logger.Warn().Ctx(ctx).
				Str("component", "cache").
				Err(err).
				Msg("cache write failed")
		}
	}
}

// Invalidate empties every tier.
func (c *CachingSource[R]) Invalidate() error {
	var errs []error
	for _, tier := range c.tiers {
		if err := tier.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ listing.DataSource[struct{}] = (*CachingSource[struct{}])(nil)
