package listing

import "strings"

// Mode is the request shape used for a page fetch.
type Mode int

const (
	// ModeBrowse fetches using pagination parameters only.
	ModeBrowse Mode = iota
	// ModeSearch fetches with a non-empty keyword.
	ModeSearch
)

// String returns "browse" or "search".
func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "browse"
}

// PageRequest holds the parameters sent to a DataSource.
type PageRequest struct {
	// PageNumber is 1-based, as expected on the wire.
	PageNumber int `json:"pageNumber"`

	// PageSize is the number of records requested.
	PageSize int `json:"pageSize"`

	// Keyword is the trimmed search keyword. Empty means the parameter is omitted.
	Keyword string `json:"keyword,omitempty"`
}

// HasKeyword reports whether the keyword parameter is present.
func (r PageRequest) HasKeyword() bool {
	return r.Keyword != ""
}

// QueryState is the navigation state of a single listing session.
type QueryState struct {
	// CurrentPage is the 0-based current page.
	CurrentPage int `json:"current_page" yaml:"current_page"`

	// PageSize is fixed for the life of the session.
	PageSize int `json:"page_size" yaml:"page_size"`

	// Keyword is the raw search input. It is only active once trimmed non-empty.
	Keyword string `json:"keyword,omitempty" yaml:"keyword,omitempty"`

	// Filter is the local sensitivity filter.
	Filter FilterMode `json:"filter" yaml:"filter"`
}

// NewQueryState returns the initial state of a listing session.
func NewQueryState(pageSize int) QueryState {
	return QueryState{
		CurrentPage: 0,
		PageSize:    pageSize,
		Filter:      FilterAll,
	}
}

// ActiveKeyword returns the trimmed keyword.
func (q QueryState) ActiveKeyword() string {
	return strings.TrimSpace(q.Keyword)
}

// Searching reports whether navigation fetches use the search request shape.
func (q QueryState) Searching() bool {
	return q.ActiveKeyword() != ""
}

// Mode returns the request shape implied by the current keyword.
func (q QueryState) Mode() Mode {
	if q.Searching() {
		return ModeSearch
	}
	return ModeBrowse
}

// RequestParams derives the parameters of the next fetch. PageNumber is 1-based and
// Keyword is only set when the trimmed keyword is non-empty.
func (q QueryState) RequestParams() PageRequest {
	return PageRequest{
		PageNumber: q.CurrentPage + 1,
		PageSize:   q.PageSize,
		Keyword:    q.ActiveKeyword(),
	}
}

// SetPage moves to page n (0-based). It returns false and leaves the state untouched
// when n is negative or, with totalPages known (> 0), when n >= totalPages.
func (q *QueryState) SetPage(n, totalPages int) bool {
	if n < 0 || (totalPages > 0 && n >= totalPages) {
		return false
	}
	q.CurrentPage = n
	return true
}

// SetKeyword stores the raw search input.
func (q *QueryState) SetKeyword(s string) {
	q.Keyword = s
}

// SetFilter sets the sensitivity filter.
func (q *QueryState) SetFilter(mode FilterMode) {
	q.Filter = mode
}
