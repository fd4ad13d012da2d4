package listing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchCall struct {
	mode Mode
	req  PageRequest
}

// fakeSource serves a fixed number of docs, alternating sensitivity.
type fakeSource struct {
	mu    sync.Mutex
	total int
	calls []fetchCall
	err   error
}

func (s *fakeSource) FetchPage(_ context.Context, mode Mode, req PageRequest) (PagedResult[doc], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, fetchCall{mode: mode, req: req})
	if s.err != nil {
		return PagedResult[doc]{}, s.err
	}

	start := (req.PageNumber - 1) * req.PageSize
	records := []doc{}
	for i := start; i < start+req.PageSize && i < s.total; i++ {
		flag := NotSensitive
		if i%2 == 0 {
			flag = Sensitive
		}
		records = append(records, doc{id: i + 1, flag: flag})
	}

	return PagedResult[doc]{
		Records: records,
		Metadata: PageMetadata{
			PageNumber:    req.PageNumber,
			PageSize:      req.PageSize,
			TotalElements: s.total,
			TotalPages:    TotalPagesFor(s.total, req.PageSize),
		},
	}, nil
}

func (s *fakeSource) lastCall(t *testing.T) fetchCall {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.calls)
	return s.calls[len(s.calls)-1]
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestEngine(t *testing.T, total int) (*Engine[doc], *fakeSource) {
	t.Helper()
	src := &fakeSource{total: total}
	e, err := NewEngine[doc](src, 6, WithName("own"))
	require.NoError(t, err)
	return e, src
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine[doc](nil, 6)
	require.ErrorIs(t, err, ErrNilSource)

	_, err = NewEngine[doc](&fakeSource{}, 0)
	require.ErrorIs(t, err, ErrInvalidPageSize)

	e, err := NewEngine[doc](&fakeSource{}, 6, WithFilter(FilterSensitive))
	require.NoError(t, err)
	assert.Equal(t, FilterSensitive, e.Query().Filter)
	assert.False(t, e.Loaded())
	assert.Empty(t, e.Range())
}

func TestEngine_LoadFirstPage(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 13)

	require.NoError(t, e.LoadFirstPage(ctx))

	call := src.lastCall(t)
	assert.Equal(t, ModeBrowse, call.mode)
	assert.Equal(t, PageRequest{PageNumber: 1, PageSize: 6}, call.req)

	snap := e.Snapshot()
	assert.True(t, snap.Loaded)
	assert.Equal(t, 0, snap.Query.CurrentPage)
	assert.Equal(t, 3, snap.Metadata.TotalPages)
	assert.Equal(t, 13, snap.Metadata.TotalElements)
	assert.Len(t, snap.Records, 6)
	assert.Equal(t, pages(1, 2, 3), snap.Range)
}

func TestEngine_LoadFirstPageIgnoresStaleKeyword(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 13)

	require.NoError(t, e.Search(ctx, "tax"))
	require.NoError(t, e.NextPage(ctx))
	require.NoError(t, e.LoadFirstPage(ctx))

	call := src.lastCall(t)
	assert.Equal(t, ModeBrowse, call.mode)
	assert.False(t, call.req.HasKeyword())
	assert.Equal(t, 0, e.Query().CurrentPage)

	// The keyword survives, so the next navigation searches again.
	require.NoError(t, e.NextPage(ctx))
	call = src.lastCall(t)
	assert.Equal(t, ModeSearch, call.mode)
	assert.Equal(t, "tax", call.req.Keyword)
}

func TestEngine_RefreshMarksContext(t *testing.T) {
	ctx := context.Background()
	var refreshes []bool
	src := DataSourceFunc[doc](func(ctx context.Context, _ Mode, _ PageRequest) (PagedResult[doc], error) {
		refreshes = append(refreshes, IsRefresh(ctx))
		return PagedResult[doc]{Records: []doc{}, Metadata: PageMetadata{TotalElements: 20, TotalPages: 4}}, nil
	})
	e, err := NewEngine[doc](src, 6)
	require.NoError(t, err)

	require.NoError(t, e.LoadFirstPage(ctx))
	require.NoError(t, e.NextPage(ctx))
	require.NoError(t, e.RefreshCurrentPage(ctx))
	require.NoError(t, e.GoToPage(ctx, 0))

	assert.Equal(t, []bool{false, false, true, false}, refreshes)
	assert.False(t, IsRefresh(ctx), "the caller's context is not modified")
}

func TestEngine_RefreshIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 13)
	require.NoError(t, e.LoadFirstPage(ctx))
	require.NoError(t, e.GoToPage(ctx, 1))

	require.NoError(t, e.RefreshCurrentPage(ctx))
	first := src.lastCall(t)
	require.NoError(t, e.RefreshCurrentPage(ctx))
	second := src.lastCall(t)

	assert.Equal(t, first, second)
	assert.Equal(t, PageRequest{PageNumber: 2, PageSize: 6}, second.req)
}

func TestEngine_SearchModeSwitching(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 13)
	require.NoError(t, e.LoadFirstPage(ctx))

	require.NoError(t, e.Search(ctx, "abc"))
	call := src.lastCall(t)
	assert.Equal(t, ModeSearch, call.mode)
	assert.Equal(t, PageRequest{PageNumber: 1, PageSize: 6, Keyword: "abc"}, call.req)

	require.NoError(t, e.NextPage(ctx))
	call = src.lastCall(t)
	assert.Equal(t, ModeSearch, call.mode)
	assert.Equal(t, "abc", call.req.Keyword)
	assert.Equal(t, 2, call.req.PageNumber)

	for _, blank := range []string{"", "   "} {
		require.NoError(t, e.Search(ctx, blank))
		assert.Equal(t, 0, e.Query().CurrentPage, "search must reset to page 0")
		assert.Equal(t, ModeBrowse, src.lastCall(t).mode)

		require.NoError(t, e.NextPage(ctx))
		call = src.lastCall(t)
		assert.Equal(t, ModeBrowse, call.mode)
		assert.False(t, call.req.HasKeyword())
		assert.Equal(t, 2, call.req.PageNumber)
	}
}

func TestEngine_SearchResetsPage(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 30)
	require.NoError(t, e.LoadFirstPage(ctx))
	require.NoError(t, e.GoToPage(ctx, 3))

	require.NoError(t, e.Search(ctx, "  report "))
	assert.Equal(t, 0, e.Query().CurrentPage)
	assert.Equal(t, PageRequest{PageNumber: 1, PageSize: 6, Keyword: "report"}, src.lastCall(t).req)
}

func TestEngine_GoToPageOutOfBounds(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 13)
	require.NoError(t, e.LoadFirstPage(ctx))
	before := e.Snapshot()
	calls := src.callCount()

	for _, n := range []int{-1, 3, 100} {
		err := e.GoToPage(ctx, n)
		require.ErrorIs(t, err, ErrInvalidPageRequest)
	}

	assert.Equal(t, calls, src.callCount(), "rejected navigation must not fetch")
	assert.Equal(t, before, e.Snapshot())
}

func TestEngine_PrevPageAtStart(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 13)
	require.NoError(t, e.LoadFirstPage(ctx))

	require.ErrorIs(t, e.PrevPage(ctx), ErrInvalidPageRequest)
	assert.Equal(t, 1, src.callCount())

	require.NoError(t, e.GoToPage(ctx, 2))
	require.NoError(t, e.PrevPage(ctx))
	assert.Equal(t, 1, e.Query().CurrentPage)
	assert.Equal(t, 2, src.lastCall(t).req.PageNumber)
}

func TestEngine_NextPageBeforeLoad(t *testing.T) {
	e, src := newTestEngine(t, 13)
	require.ErrorIs(t, e.NextPage(context.Background()), ErrInvalidPageRequest)
	assert.Equal(t, 0, src.callCount())
}

func TestEngine_EndToEndWalk(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 13)
	require.NoError(t, e.LoadFirstPage(ctx))
	require.Equal(t, 3, e.Metadata().TotalPages)

	visited := []int{e.Query().CurrentPage}
	for range 2 {
		require.NoError(t, e.NextPage(ctx))
		visited = append(visited, e.Query().CurrentPage)
	}
	assert.Equal(t, []int{0, 1, 2}, visited)

	calls := src.callCount()
	require.ErrorIs(t, e.NextPage(ctx), ErrInvalidPageRequest)
	assert.Equal(t, 2, e.Query().CurrentPage)
	assert.Equal(t, calls, src.callCount())

	snap := e.Snapshot()
	assert.True(t, snap.Metadata.LastPage)
	assert.Len(t, snap.Records, 1)
}

func TestEngine_FetchFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 13)
	require.NoError(t, e.LoadFirstPage(ctx))
	before := e.Snapshot()

	cause := errors.New("connection refused")
	src.err = cause

	err := e.NextPage(ctx)
	require.ErrorIs(t, err, ErrFetchFailed)
	require.ErrorIs(t, err, cause)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 2, fetchErr.Request.PageNumber)
	assert.Equal(t, "own", fetchErr.Source)

	require.ErrorIs(t, e.Search(ctx, "abc"), ErrFetchFailed)
	assert.Equal(t, before, e.Snapshot(), "failed fetches must not change state")
}

func TestEngine_SetFilterIsLocal(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 13)
	require.NoError(t, e.LoadFirstPage(ctx))
	calls := src.callCount()

	e.SetFilter(FilterSensitive)
	assert.Equal(t, []int{1, 3, 5}, ids(e.Visible()))

	e.SetFilter(FilterNotSensitive)
	assert.Equal(t, []int{2, 4, 6}, ids(e.Visible()))

	e.SetFilter(FilterAll)
	assert.Len(t, e.Visible(), 6)

	assert.Equal(t, calls, src.callCount(), "filtering must not fetch")
	assert.Len(t, e.Snapshot().Records, 6, "snapshot must not be narrowed")
}

func TestEngine_FilterSurvivesNavigation(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, 13)
	require.NoError(t, e.LoadFirstPage(ctx))

	assert.Equal(t, FilterSensitive, e.CycleFilter())
	require.NoError(t, e.NextPage(ctx))

	assert.Equal(t, FilterSensitive, e.Query().Filter)
	assert.Equal(t, []int{7, 9, 11}, ids(e.Visible()))
}

func TestEngine_ClampsWhenCollectionShrinks(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 30)
	require.NoError(t, e.LoadFirstPage(ctx))
	require.NoError(t, e.GoToPage(ctx, 4))

	src.mu.Lock()
	src.total = 8
	src.mu.Unlock()

	require.NoError(t, e.RefreshCurrentPage(ctx))
	snap := e.Snapshot()
	assert.Equal(t, 1, snap.Query.CurrentPage)
	assert.Equal(t, 2, snap.Metadata.TotalPages)
	assert.Equal(t, 2, src.lastCall(t).req.PageNumber)
	assert.Len(t, snap.Records, 2)
}

func TestEngine_EmptyCollection(t *testing.T) {
	e, _ := newTestEngine(t, 0)
	require.NoError(t, e.LoadFirstPage(context.Background()))

	snap := e.Snapshot()
	assert.Equal(t, 0, snap.Metadata.TotalPages)
	assert.Empty(t, snap.Records)
	assert.Empty(t, snap.Range)
	assert.True(t, snap.Metadata.LastPage)
}

func TestEngine_GoToPageOnEmptyCollection(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 0)
	require.NoError(t, e.LoadFirstPage(ctx))
	before := e.Snapshot()

	for _, n := range []int{1, 4} {
		require.ErrorIs(t, e.GoToPage(ctx, n), ErrInvalidPageRequest)
	}
	assert.Equal(t, 1, src.callCount(), "rejected navigation must not fetch")
	assert.Equal(t, before, e.Snapshot())

	// Page 0 still reloads the empty first page.
	require.NoError(t, e.GoToPage(ctx, 0))
	assert.Equal(t, PageRequest{PageNumber: 1, PageSize: 6}, src.lastCall(t).req)
}

func TestEngine_GoToPageBeforeLoad(t *testing.T) {
	ctx := context.Background()
	e, src := newTestEngine(t, 13)

	require.NoError(t, e.GoToPage(ctx, 2))
	assert.Equal(t, 3, src.lastCall(t).req.PageNumber)
	assert.Equal(t, 2, e.Query().CurrentPage)
}

// blockingSource holds each fetch until released, so responses can be reordered.
type blockingSource struct {
	inner   *fakeSource
	started chan PageRequest
	release map[int]chan struct{}
}

func (s *blockingSource) FetchPage(ctx context.Context, mode Mode, req PageRequest) (PagedResult[doc], error) {
	if ch, ok := s.release[req.PageNumber]; ok {
		s.started <- req
		<-ch
	}
	return s.inner.FetchPage(ctx, mode, req)
}

func TestEngine_StaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	inner := &fakeSource{total: 30}
	src := &blockingSource{
		inner:   inner,
		started: make(chan PageRequest, 2),
		release: map[int]chan struct{}{},
	}
	e, err := NewEngine[doc](src, 6)
	require.NoError(t, err)
	require.NoError(t, e.LoadFirstPage(ctx))

	src.release[2] = make(chan struct{})
	slowErr := make(chan error, 1)
	go func() { slowErr <- e.GoToPage(ctx, 1) }()
	<-src.started

	// A newer request for page 3 completes first.
	require.NoError(t, e.GoToPage(ctx, 2))
	assert.Equal(t, 2, e.Query().CurrentPage)

	close(src.release[2])
	require.ErrorIs(t, <-slowErr, ErrStaleResponse)
	assert.Equal(t, 2, e.Query().CurrentPage, "late response must not overwrite newer page")
	assert.Equal(t, []int{13, 14, 15, 16, 17, 18}, ids(e.Visible()))
}

func TestDataSourceFunc(t *testing.T) {
	var got PageRequest
	src := DataSourceFunc[doc](func(_ context.Context, _ Mode, req PageRequest) (PagedResult[doc], error) {
		got = req
		return PagedResult[doc]{Metadata: PageMetadata{TotalElements: 1}}, nil
	})

	e, err := NewEngine[doc](src, 6)
	require.NoError(t, err)
	require.NoError(t, e.LoadFirstPage(context.Background()))
	assert.Equal(t, PageRequest{PageNumber: 1, PageSize: 6}, got)
	assert.Equal(t, 1, e.Metadata().TotalPages)
}
