package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	id   int
	flag Sensitivity
}

func (d doc) Sensitivity() Sensitivity { return d.flag }

func sampleDocs() []doc {
	return []doc{
		{id: 1, flag: Sensitive},
		{id: 2, flag: NotSensitive},
		{id: 3, flag: SensitivityUnknown},
		{id: 4, flag: Sensitive},
		{id: 5, flag: NotSensitive},
	}
}

func ids(docs []doc) []int {
	out := make([]int, len(docs))
	for i, d := range docs {
		out[i] = d.id
	}
	return out
}

func TestApplyFilter(t *testing.T) {
	tests := []struct {
		mode FilterMode
		want []int
	}{
		{FilterAll, []int{1, 2, 3, 4, 5}},
		{FilterSensitive, []int{1, 4}},
		{FilterNotSensitive, []int{2, 3, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(ApplyFilter(sampleDocs(), tt.mode)))
		})
	}
}

func TestFilterMode_Matches(t *testing.T) {
	tests := []struct {
		mode FilterMode
		in   Sensitivity
		want bool
	}{
		{FilterAll, Sensitive, true},
		{FilterAll, NotSensitive, true},
		{FilterAll, SensitivityUnknown, true},
		{FilterSensitive, Sensitive, true},
		{FilterSensitive, NotSensitive, false},
		{FilterSensitive, SensitivityUnknown, false},
		{FilterNotSensitive, Sensitive, false},
		{FilterNotSensitive, NotSensitive, true},
		{FilterNotSensitive, SensitivityUnknown, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.mode.Matches(tt.in), "%s / %d", tt.mode, tt.in)
	}
}

func TestApplyFilter_Pure(t *testing.T) {
	records := sampleDocs()
	original := sampleDocs()

	first := ApplyFilter(records, FilterSensitive)
	second := ApplyFilter(records, FilterSensitive)
	assert.Equal(t, first, second)

	_ = ApplyFilter(records, FilterNotSensitive)
	assert.Equal(t, original, records, "input must not be mutated")

	all := ApplyFilter(records, FilterAll)
	all[0].id = 99
	assert.Equal(t, 1, records[0].id, "result must not alias input")
}

func TestApplyFilter_Empty(t *testing.T) {
	assert.Empty(t, ApplyFilter([]doc(nil), FilterSensitive))
	assert.NotNil(t, ApplyFilter([]doc(nil), FilterAll))
}

func TestParseFilterMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FilterMode
		wantErr bool
	}{
		{in: "", want: FilterAll},
		{in: "all", want: FilterAll},
		{in: "Sensitive", want: FilterSensitive},
		{in: "flagged", want: FilterSensitive},
		{in: "insensitive", want: FilterNotSensitive},
		{in: "not-sensitive", want: FilterNotSensitive},
		{in: "secret", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilterMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFilterMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			roundTrip, err := ParseFilterMode(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, roundTrip)
		})
	}
}

func TestFilterMode_Next(t *testing.T) {
	assert.Equal(t, FilterSensitive, FilterAll.Next())
	assert.Equal(t, FilterNotSensitive, FilterSensitive.Next())
	assert.Equal(t, FilterAll, FilterNotSensitive.Next())
}

func TestSensitivityOf(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, SensitivityUnknown, SensitivityOf(nil))
	assert.Equal(t, Sensitive, SensitivityOf(&yes))
	assert.Equal(t, NotSensitive, SensitivityOf(&no))
	assert.Equal(t, "not sensitive", NotSensitive.String())
}
