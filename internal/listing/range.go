package listing

import "strconv"

// DefaultRangeDelta is the number of pages shown on each side of the current page.
const DefaultRangeDelta = 2

// ellipsisLabel is the display text of an ellipsis marker.
const ellipsisLabel = "..."

// RangeEntry is one element of a display range: either a 1-based page number or an
// ellipsis marker standing in for a run of omitted pages.
type RangeEntry struct {
	// Page is the 1-based page number. Zero for ellipsis markers.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`

	// Ellipsis marks a placeholder for omitted pages.
	Ellipsis bool `json:"ellipsis,omitempty" yaml:"ellipsis,omitempty"`
}

// PageEntry returns a numeric range entry.
func PageEntry(page int) RangeEntry {
	return RangeEntry{Page: page}
}

// EllipsisEntry returns an ellipsis marker.
func EllipsisEntry() RangeEntry {
	return RangeEntry{Ellipsis: true}
}

// IsPage reports whether the entry is a page number.
func (e RangeEntry) IsPage() bool {
	return !e.Ellipsis
}

// String renders the entry as it is shown to users.
func (e RangeEntry) String() string {
	if e.Ellipsis {
		return ellipsisLabel
	}
	return strconv.Itoa(e.Page)
}

// ComputeRange returns the compressed page range for a listing with totalPages pages
// whose current page is currentPage0Based (0-based).
//
// Page 1, the last page and every page within delta of the current page are kept.
// A gap of exactly one page between kept pages is filled with that page; larger gaps
// collapse into a single ellipsis marker. totalPages <= 0 yields an empty range and a
// negative delta is treated as zero.
func ComputeRange(totalPages, currentPage0Based, delta int) []RangeEntry {
	if totalPages <= 0 {
		return []RangeEntry{}
	}
	if delta < 0 {
		delta = 0
	}

	current := currentPage0Based + 1
	windowFrom := max(current-delta, 2)
	windowTo := min(current+delta, totalPages-1)

	kept := make([]int, 0, max(windowTo-windowFrom+1, 0)+2) //nolint:mnd // window plus first and last.
	kept = append(kept, 1)
	for i := windowFrom; i <= windowTo; i++ {
		kept = append(kept, i)
	}
	if totalPages > 1 {
		kept = append(kept, totalPages)
	}

	out := make([]RangeEntry, 0, len(kept)+2) //nolint:mnd // at most two markers.
	last := 0
	for _, page := range kept {
		if last > 0 {
			switch gap := page - last; {
			case gap == 2: //nolint:mnd // a single skipped page is shown instead of a marker.
				out = append(out, PageEntry(last+1))
			case gap > 1:
				out = append(out, EllipsisEntry())
			}
		}
		out = append(out, PageEntry(page))
		last = page
	}

	return out
}

// RangeLabels renders a range as display strings.
func RangeLabels(entries []RangeEntry) []string {
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.String()
	}
	return labels
}
