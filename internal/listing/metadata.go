package listing

import "context"

// PageMetadata describes the page currently held by an Engine.
type PageMetadata struct {
	PageNumber    int  `json:"page_number"    yaml:"page_number"`
	PageSize      int  `json:"page_size"      yaml:"page_size"`
	TotalElements int  `json:"total_elements" yaml:"total_elements"`
	TotalPages    int  `json:"total_pages"    yaml:"total_pages"`
	LastPage      bool `json:"last_page"      yaml:"last_page"`
}

// TotalPagesFor returns ceil(totalElements/pageSize), or 0 for degenerate input.
func TotalPagesFor(totalElements, pageSize int) int {
	if totalElements <= 0 || pageSize <= 0 {
		return 0
	}
	pages := totalElements / pageSize
	if totalElements%pageSize > 0 {
		pages++
	}
	return pages
}

// HasNext reports whether a page follows the current one.
func (m PageMetadata) HasNext() bool {
	return m.PageNumber+1 < m.TotalPages
}

// HasPrevious reports whether a page precedes the current one.
func (m PageMetadata) HasPrevious() bool {
	return m.PageNumber > 0
}

// normalizeMetadata builds the metadata committed after a fetch of page0 (0-based).
// The server's echo of the page number is ignored because collections disagree on
// whether it is 0- or 1-based; the requested page is authoritative. TotalPages is
// derived from TotalElements when the server omits it.
func normalizeMetadata(raw PageMetadata, page0, pageSize int) PageMetadata {
	size := raw.PageSize
	if size <= 0 {
		size = pageSize
	}

	total := raw.TotalPages
	if total <= 0 {
		total = TotalPagesFor(raw.TotalElements, size)
	}

	return PageMetadata{
		PageNumber:    page0,
		PageSize:      pageSize,
		TotalElements: max(raw.TotalElements, 0),
		TotalPages:    total,
		LastPage:      page0+1 >= max(total, 1),
	}
}

// PagedResult is one page returned by a DataSource.
type PagedResult[R any] struct {
	Records  []R
	Metadata PageMetadata
}

// DataSource fetches pages of a remote collection. Implementations attach
// authentication and handle transport; every failure is opaque to the engine.
type DataSource[R any] interface {
	FetchPage(ctx context.Context, mode Mode, req PageRequest) (PagedResult[R], error)
}

// DataSourceFunc adapts a function to the DataSource interface.
type DataSourceFunc[R any] func(ctx context.Context, mode Mode, req PageRequest) (PagedResult[R], error)

// FetchPage calls f.
func (f DataSourceFunc[R]) FetchPage(ctx context.Context, mode Mode, req PageRequest) (PagedResult[R], error) {
	return f(ctx, mode, req)
}
