// Package cache keeps recently fetched listing pages so repeated CLI runs and
// back-and-forth paging do not hit the vault backend every time.
//
// Two tiers are available:
//   - MemoryStore, an expiring LRU that lives for one process (the interactive
//     browser benefits most).
//   - FileStore, JSON files under ~/.vaultctl/cache shared between runs.
//
// CachingSource stacks the tiers in front of any listing.DataSource. Keys are
// SHA-256 digests of collection, mode and request parameters. Any mutation of the
// vault (upload, delete, share) must call Invalidate, as cached pages would
// otherwise show stale totals.
package cache
