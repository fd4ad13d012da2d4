package pagination

import (
	"github.com/rshade/vaultctl/internal/listing"
)

// Meta is the pagination block of JSON output. Page numbers are 1-based.
type Meta struct {
	Collection  string   `json:"collection"         yaml:"collection"`
	Mode        string   `json:"mode"               yaml:"mode"`
	Keyword     string   `json:"keyword,omitempty"  yaml:"keyword,omitempty"`
	Filter      string   `json:"filter"             yaml:"filter"`
	CurrentPage int      `json:"current_page"       yaml:"current_page"`
	PageSize    int      `json:"page_size"          yaml:"page_size"`
	TotalPages  int      `json:"total_pages"        yaml:"total_pages"`
	TotalItems  int      `json:"total_items"        yaml:"total_items"`
	PageItems   int      `json:"page_items"         yaml:"page_items"`
	Visible     int      `json:"visible_items"      yaml:"visible_items"`
	HasPrevious bool     `json:"has_previous"       yaml:"has_previous"`
	HasNext     bool     `json:"has_next"           yaml:"has_next"`
	Range       []string `json:"range"              yaml:"range"`
}

// NewMeta summarizes an engine snapshot.
func NewMeta[R any](collection string, snap listing.Snapshot[R]) Meta {
	current := 0
	if snap.Metadata.TotalPages > 0 {
		current = snap.Query.CurrentPage + 1
	}
	labels := listing.RangeLabels(snap.Range)
	if labels == nil {
		labels = []string{}
	}
	return Meta{
		Collection:  collection,
		Mode:        snap.Query.Mode().String(),
		Keyword:     snap.Query.ActiveKeyword(),
		Filter:      snap.Query.Filter.String(),
		CurrentPage: current,
		PageSize:    snap.Metadata.PageSize,
		TotalPages:  snap.Metadata.TotalPages,
		TotalItems:  snap.Metadata.TotalElements,
		PageItems:   len(snap.Records),
		Visible:     len(snap.Visible),
		HasPrevious: snap.Metadata.HasPrevious(),
		HasNext:     snap.Metadata.HasNext(),
		Range:       labels,
	}
}
