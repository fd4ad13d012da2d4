package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vaultctl/internal/listing"
	"github.com/rshade/vaultctl/internal/vault"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{name: "defaults", params: Params{}},
		{name: "page and size", params: Params{Page: 3, PageSize: 10}},
		{name: "negative page", params: Params{Page: -1}, wantErr: ErrInvalidPage},
		{name: "size too big", params: Params{PageSize: MaxPageSize + 1}, wantErr: ErrInvalidPageSize},
		{name: "negative size", params: Params{PageSize: -2}, wantErr: ErrInvalidPageSize},
		{name: "bad filter", params: Params{Filter: "secret"}, wantErr: listing.ErrInvalidFilterMode},
		{name: "bad sort order", params: Params{Sort: "name:up"}, wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParams_Derived(t *testing.T) {
	assert.Equal(t, 0, Params{}.PageIndex())
	assert.Equal(t, 4, Params{Page: 5}.PageIndex())
	assert.Equal(t, 6, Params{}.EffectivePageSize(6))
	assert.Equal(t, 20, Params{PageSize: 20}.EffectivePageSize(6))
	assert.Equal(t, listing.FilterSensitive, Params{}.FilterMode(listing.FilterSensitive))
	assert.Equal(t, listing.FilterNotSensitive, Params{Filter: "insensitive"}.FilterMode(listing.FilterAll))
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in        string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{in: "", wantField: "", wantOrder: SortOrderAsc},
		{in: "name", wantField: "name", wantOrder: SortOrderAsc},
		{in: " created : DESC ", wantField: "created", wantOrder: SortOrderDesc},
		{in: ":desc", wantErr: ErrEmptySortField},
		{in: "a:b:c", wantErr: ErrInvalidSortFormat},
		{in: "name:sideways", wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			field, order, err := ParseSort(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestFileSorter(t *testing.T) {
	files := []vault.File{
		{ID: 3, Filename: "b.pdf", Category: "pan", CreatedAt: "2024-03-01T10:00:00"},
		{ID: 1, Filename: "C.pdf", Category: "aadhaar", CreatedAt: "2024-01-01T10:00:00"},
		{ID: 2, Filename: "a.pdf", Category: "pan", CreatedAt: "2024-02-01T10:00:00"},
	}
	s := NewFileSorter()

	ids := func(fs []vault.File) []int64 {
		out := make([]int64, len(fs))
		for i, f := range fs {
			out[i] = f.ID
		}
		return out
	}

	tests := []struct {
		field, order string
		want         []int64
	}{
		{"", SortOrderAsc, []int64{3, 1, 2}},
		{SortByID, SortOrderAsc, []int64{1, 2, 3}},
		{SortByName, SortOrderAsc, []int64{2, 3, 1}},
		{SortByName, SortOrderDesc, []int64{1, 3, 2}},
		{SortByCreated, SortOrderDesc, []int64{3, 2, 1}},
		{SortByCategory, SortOrderAsc, []int64{1, 3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.field+":"+tt.order, func(t *testing.T) {
			got, err := s.Sort(files, tt.field, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	assert.Equal(t, []int64{3, 1, 2}, ids(files), "input is not reordered")

	_, err := s.Sort(files, "size", SortOrderAsc)
	require.ErrorIs(t, err, ErrInvalidSortField)
	assert.True(t, s.IsValidField(SortBySender))
	assert.Contains(t, s.ValidFields(), SortByReceiver)
}

func TestNewMeta(t *testing.T) {
	snap := listing.Snapshot[vault.File]{
		Query: listing.QueryState{CurrentPage: 4, PageSize: 6, Keyword: " tax ", Filter: listing.FilterSensitive},
		Metadata: listing.PageMetadata{
			PageNumber: 4, PageSize: 6, TotalElements: 60, TotalPages: 10,
		},
		Records: make([]vault.File, 6),
		Visible: make([]vault.File, 2),
		Range:   listing.ComputeRange(10, 4, 2),
	}

	meta := NewMeta("own", snap)
	assert.Equal(t, "search", meta.Mode)
	assert.Equal(t, "tax", meta.Keyword)
	assert.Equal(t, "sensitive", meta.Filter)
	assert.Equal(t, 5, meta.CurrentPage)
	assert.Equal(t, 10, meta.TotalPages)
	assert.Equal(t, 60, meta.TotalItems)
	assert.Equal(t, 6, meta.PageItems)
	assert.Equal(t, 2, meta.Visible)
	assert.True(t, meta.HasPrevious)
	assert.True(t, meta.HasNext)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "...", "10"}, meta.Range)

	empty := NewMeta("shared", listing.Snapshot[vault.File]{})
	assert.Equal(t, 0, empty.CurrentPage)
	assert.NotNil(t, empty.Range)
	assert.False(t, empty.HasNext)
}
