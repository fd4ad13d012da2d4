package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/vaultctl/internal/listing"
)

// Defaults and limits for listing flags.
const (
	DefaultPage      = 1
	MinPageSize      = 1
	MaxPageSize      = 100
	DefaultSortOrder = SortOrderAsc
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidPageSize   = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'name:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params holds the listing flags of one command invocation.
type Params struct {
	// Page is the 1-based page requested with --page (0 means first page).
	Page int
	// PageSize overrides the configured page size when > 0.
	PageSize int
	// Search is the --search keyword; blank means browse.
	Search string
	// Filter is the --filter mode name.
	Filter string
	// Sort is the raw --sort expression.
	Sort string
}

// Validate checks bounds and parses filter and sort.
func (p Params) Validate() error {
	if p.Page < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize != 0 && (p.PageSize < MinPageSize || p.PageSize > MaxPageSize) {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if _, err := listing.ParseFilterMode(p.Filter); err != nil {
		return err
	}
	if _, _, err := ParseSort(p.Sort); err != nil {
		return err
	}
	return nil
}

// PageIndex returns the 0-based page index the engine works with.
func (p Params) PageIndex() int {
	if p.Page <= 0 {
		return 0
	}
	return p.Page - 1
}

// FilterMode returns the parsed filter, or fallback when --filter was not given.
func (p Params) FilterMode(fallback listing.FilterMode) listing.FilterMode {
	if strings.TrimSpace(p.Filter) == "" {
		return fallback
	}
	mode, err := listing.ParseFilterMode(p.Filter)
	if err != nil {
		return fallback
	}
	return mode
}

// EffectivePageSize returns PageSize or fallback when unset.
func (p Params) EffectivePageSize(fallback int) int {
	if p.PageSize > 0 {
		return p.PageSize
	}
	return fallback
}

const sortPartsMax = 2

// ParseSort parses "field" or "field:order". An empty expression means no
// sorting and returns an empty field.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(expr string) (field, order string, err error) {
	if strings.TrimSpace(expr) == "" {
		return "", DefaultSortOrder, nil
	}

	parts := strings.Split(expr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}
