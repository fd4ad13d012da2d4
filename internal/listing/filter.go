package listing

import (
	"errors"
	"fmt"
	"strings"
)

// Sensitivity is the tri-state sensitivity classification of a record.
type Sensitivity int

const (
	// SensitivityUnknown is used when the server does not classify the record.
	SensitivityUnknown Sensitivity = iota
	// Sensitive marks a flagged record.
	Sensitive
	// NotSensitive marks a record explicitly classified as not sensitive.
	NotSensitive
)

// SensitivityOf converts an optional boolean flag into a Sensitivity.
func SensitivityOf(flag *bool) Sensitivity {
	switch {
	case flag == nil:
		return SensitivityUnknown
	case *flag:
		return Sensitive
	default:
		return NotSensitive
	}
}

// String returns a short label for the classification.
func (s Sensitivity) String() string {
	switch s {
	case Sensitive:
		return "sensitive"
	case NotSensitive:
		return "not sensitive"
	case SensitivityUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Classified is implemented by records that carry a sensitivity attribute.
type Classified interface {
	Sensitivity() Sensitivity
}

// FilterMode selects which records of the current page are visible.
type FilterMode int

const (
	// FilterAll shows every record.
	FilterAll FilterMode = iota
	// FilterSensitive shows only records flagged as sensitive.
	FilterSensitive
	// FilterNotSensitive hides records classified as sensitive.
	FilterNotSensitive
)

// numFilterModes is the number of FilterMode values, used for cycling.
const numFilterModes = 3

// ErrInvalidFilterMode is returned by ParseFilterMode for unknown names.
var ErrInvalidFilterMode = errors.New("invalid filter mode")

// ParseFilterMode parses a filter name. Accepted names are "all" (or empty),
// "sensitive"/"flagged" and "insensitive"/"not-sensitive"/"unflagged".
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "sensitive", "flagged":
		return FilterSensitive, nil
	case "insensitive", "not-sensitive", "notsensitive", "unflagged":
		return FilterNotSensitive, nil
	default:
		return FilterAll, fmt.Errorf("%w: %q (use all, sensitive or insensitive)", ErrInvalidFilterMode, s)
	}
}

// String returns the canonical name accepted by ParseFilterMode.
func (f FilterMode) String() string {
	switch f {
	case FilterSensitive:
		return "sensitive"
	case FilterNotSensitive:
		return "insensitive"
	case FilterAll:
		return "all"
	default:
		return "all"
	}
}

// Next returns the mode following f in the cycle all -> sensitive -> insensitive.
func (f FilterMode) Next() FilterMode {
	return (f + 1) % numFilterModes
}

// Matches reports whether a record with sensitivity s passes the filter.
// Unclassified records count as not sensitive.
func (f FilterMode) Matches(s Sensitivity) bool {
	switch f {
	case FilterSensitive:
		return s == Sensitive
	case FilterNotSensitive:
		return s != Sensitive
	case FilterAll:
		return true
	default:
		return true
	}
}

// ApplyFilter returns the records that pass mode, in their original order.
// The input slice is never modified and the result never aliases it.
func ApplyFilter[R Classified](records []R, mode FilterMode) []R {
	out := make([]R, 0, len(records))
	for _, r := range records {
		if mode.Matches(r.Sensitivity()) {
			out = append(out, r)
		}
	}
	return out
}
