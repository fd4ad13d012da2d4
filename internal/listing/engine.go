package listing

import (
	"context"
	"slices"
	"sync"

	"github.com/rshade/vaultctl/internal/logging"
)

type refreshKey struct{}

// WithRefresh marks ctx as an explicit refresh. Data sources that cache pages
// must skip their cached copy for such fetches.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

// IsRefresh reports whether ctx was marked by WithRefresh.
func IsRefresh(ctx context.Context) bool {
	refresh, _ := ctx.Value(refreshKey{}).(bool)
	return refresh
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	name   string
	delta  int
	filter FilterMode
}

// WithName labels the engine in logs and errors (typically the collection name).
func WithName(name string) Option {
	return func(o *engineOptions) {
		o.name = name
	}
}

// WithRangeDelta sets how many pages around the current one Range keeps.
func WithRangeDelta(delta int) Option {
	return func(o *engineOptions) {
		o.delta = delta
	}
}

// WithFilter sets the initial sensitivity filter.
func WithFilter(mode FilterMode) Option {
	return func(o *engineOptions) {
		o.filter = mode
	}
}

// Snapshot is a consistent copy of an engine's state.
type Snapshot[R any] struct {
	Query    QueryState
	Metadata PageMetadata
	Records  []R
	Visible  []R
	Range    []RangeEntry
	Loaded   bool
}

// Engine drives one listing session: it owns the QueryState and the latest page
// snapshot of a single collection.
//
// Every fetch is tagged with a generation number. A response is committed only if
// no newer fetch was started after it, so overlapping navigation (rapid page
// clicks) always settles on the most recent request. A failed fetch leaves the
// state exactly as it was.
//
// Engine is safe for concurrent use.
type Engine[R Classified] struct {
	source DataSource[R]
	name   string
	delta  int

	mu         sync.Mutex
	query      QueryState
	meta       PageMetadata
	records    []R
	visible    []R
	loaded     bool
	generation uint64
}

// NewEngine creates an engine for source with a fixed page size.
func NewEngine[R Classified](source DataSource[R], pageSize int, opts ...Option) (*Engine[R], error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}

	o := engineOptions{delta: DefaultRangeDelta, filter: FilterAll}
	for _, opt := range opts {
		opt(&o)
	}

	q := NewQueryState(pageSize)
	q.SetFilter(o.filter)

	return &Engine[R]{
		source:  source,
		name:    o.name,
		delta:   o.delta,
		query:   q,
		meta:    PageMetadata{PageSize: pageSize},
		records: []R{},
		visible: []R{},
	}, nil
}

// Name returns the engine label.
func (e *Engine[R]) Name() string {
	return e.name
}

// LoadFirstPage resets to page 0 and fetches in browse mode, ignoring any keyword
// left in the state. A stale keyword is kept, so later navigation still searches.
func (e *Engine[R]) LoadFirstPage(ctx context.Context) error {
	next := e.Query()
	next.CurrentPage = 0
	return e.run(ctx, next, ModeBrowse)
}

// RefreshCurrentPage fetches the current page again, searching when the trimmed
// keyword is non-empty and browsing otherwise. The fetch context is marked with
// WithRefresh so caching sources go back to the origin.
func (e *Engine[R]) RefreshCurrentPage(ctx context.Context) error {
	next := e.Query()
	return e.run(WithRefresh(ctx), next, next.Mode())
}

// GoToPage moves to page n (0-based). Out-of-range pages return
// ErrInvalidPageRequest without changing state or fetching. Once a page has
// loaded, an empty collection only accepts page 0; before that, any
// non-negative page is allowed.
func (e *Engine[R]) GoToPage(ctx context.Context, n int) error {
	e.mu.Lock()
	next := e.query
	total := e.meta.TotalPages
	if e.loaded {
		total = max(total, 1)
	}
	ok := next.SetPage(n, total)
	e.mu.Unlock()

	if !ok {
		return ErrInvalidPageRequest
	}
	return e.run(ctx, next, next.Mode())
}

// NextPage moves one page forward when CurrentPage+1 < TotalPages.
func (e *Engine[R]) NextPage(ctx context.Context) error {
	e.mu.Lock()
	next := e.query
	ok := next.CurrentPage+1 < e.meta.TotalPages
	e.mu.Unlock()

	if !ok {
		return ErrInvalidPageRequest
	}
	return e.GoToPage(ctx, next.CurrentPage+1)
}

// PrevPage moves one page back when CurrentPage > 0.
func (e *Engine[R]) PrevPage(ctx context.Context) error {
	e.mu.Lock()
	next := e.query
	ok := next.CurrentPage > 0
	e.mu.Unlock()

	if !ok {
		return ErrInvalidPageRequest
	}
	return e.GoToPage(ctx, next.CurrentPage-1)
}

// Search starts a fresh search from page 0. A blank keyword clears the search and
// behaves like LoadFirstPage.
func (e *Engine[R]) Search(ctx context.Context, keyword string) error {
	next := e.Query()
	next.SetKeyword(keyword)
	next.CurrentPage = 0

	if !next.Searching() {
		next.SetKeyword("")
		return e.run(ctx, next, ModeBrowse)
	}
	return e.run(ctx, next, ModeSearch)
}

// SetFilter changes the sensitivity filter and recomputes the visible records from
// the current snapshot. It never fetches.
func (e *Engine[R]) SetFilter(mode FilterMode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.query.SetFilter(mode)
	e.visible = ApplyFilter(e.records, mode)
}

// CycleFilter advances the filter to the next mode and returns it.
func (e *Engine[R]) CycleFilter() FilterMode {
	e.mu.Lock()
	next := e.query.Filter.Next()
	e.mu.Unlock()

	e.SetFilter(next)
	return next
}

// Query returns a copy of the current QueryState.
func (e *Engine[R]) Query() QueryState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// Metadata returns the metadata of the current page.
func (e *Engine[R]) Metadata() PageMetadata {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.meta
}

// Visible returns a copy of the filtered records of the current page.
func (e *Engine[R]) Visible() []R {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.visible)
}

// Range returns the display range for the current page.
func (e *Engine[R]) Range() []RangeEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ComputeRange(e.meta.TotalPages, e.query.CurrentPage, e.delta)
}

// Loaded reports whether at least one fetch has succeeded.
func (e *Engine[R]) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Snapshot returns a consistent copy of the engine state.
func (e *Engine[R]) Snapshot() Snapshot[R] {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot[R]{
		Query:    e.query,
		Metadata: e.meta,
		Records:  slices.Clone(e.records),
		Visible:  slices.Clone(e.visible),
		Range:    ComputeRange(e.meta.TotalPages, e.query.CurrentPage, e.delta),
		Loaded:   e.loaded,
	}
}

// run fetches the page described by next and commits it on success.
func (e *Engine[R]) run(ctx context.Context, next QueryState, mode Mode) error {
	return e.fetch(ctx, next, mode, false)
}

func (e *Engine[R]) fetch(ctx context.Context, next QueryState, mode Mode, clamped bool) error {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	req := next.RequestParams()
	if mode == ModeBrowse {
		req.Keyword = ""
	}

	log := logging.FromContext(ctx).With().
		Str("component", "listing").
		Str("collection", e.name).
		Str("mode", mode.String()).
		Int("page", req.PageNumber).
		Int("page_size", req.PageSize).
		Logger()
	log.Debug().Ctx(ctx).Msg("fetching page")

	result, err := e.source.FetchPage(ctx, mode, req)
	if err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("page fetch failed")
		return &FetchError{Source: e.name, Mode: mode, Request: req, Err: err}
	}

	meta := normalizeMetadata(result.Metadata, next.CurrentPage, next.PageSize)

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		log.Debug().Ctx(ctx).Msg("discarding superseded response")
		return ErrStaleResponse
	}

	// The collection shrank under us: settle on its last page.
	if meta.TotalPages > 0 && next.CurrentPage >= meta.TotalPages && !clamped {
		e.mu.Unlock()
		log.Debug().Ctx(ctx).Int("total_pages", meta.TotalPages).Msg("page beyond end, loading last page")
		next.CurrentPage = meta.TotalPages - 1
		return e.fetch(ctx, next, mode, true)
	}
	if meta.TotalPages == 0 {
		next.CurrentPage = 0
		meta.PageNumber = 0
	}

	// The filter is local; keep whatever was set while the fetch was in flight.
	next.Filter = e.query.Filter

	e.query = next
	e.meta = meta
	e.records = slices.Clone(result.Records)
	if e.records == nil {
		e.records = []R{}
	}
	e.visible = ApplyFilter(e.records, next.Filter)
	e.loaded = true
	e.mu.Unlock()

	log.Debug().Ctx(ctx).
		Int("records", len(result.Records)).
		Int("total_elements", meta.TotalElements).
		Int("total_pages", meta.TotalPages).
		Msg("page loaded")
	return nil
}
