package pagination

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rshade/vaultctl/internal/vault"
)

// Sort fields accepted by FileSorter.
const (
	SortByID       = "id"
	SortByName     = "name"
	SortByCategory = "category"
	SortByCreated  = "created"
	SortBySender   = "sender"
	SortByReceiver = "receiver"
)

// FileSorter orders the files of one page.
type FileSorter struct {
	fields map[string]func(a, b vault.File) int
}

// NewFileSorter returns a sorter for the vault.File fields.
func NewFileSorter() *FileSorter {
	return &FileSorter{
		fields: map[string]func(a, b vault.File) int{
			SortByID: func(a, b vault.File) int { return cmp.Compare(a.ID, b.ID) },
			SortByName: func(a, b vault.File) int {
				return strings.Compare(strings.ToLower(a.Filename), strings.ToLower(b.Filename))
			},
			SortByCategory: func(a, b vault.File) int {
				return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
			},
			SortByCreated: func(a, b vault.File) int { return createdOf(a).Compare(createdOf(b)) },
			SortBySender:  func(a, b vault.File) int { return strings.Compare(a.SenderName, b.SenderName) },
			SortByReceiver: func(a, b vault.File) int {
				return strings.Compare(a.ReceiverName, b.ReceiverName)
			},
		},
	}
}

func createdOf(f vault.File) time.Time {
	t, _ := f.Created()
	return t
}

// IsValidField reports whether field can be sorted on.
func (s *FileSorter) IsValidField(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// ValidFields lists the sortable fields in order.
func (s *FileSorter) ValidFields() []string {
	fields := make([]string, 0, len(s.fields))
	for f := range s.fields {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// Sort returns a stably sorted copy of files. An empty field returns a copy in
// server order.
func (s *FileSorter) Sort(files []vault.File, field, order string) ([]vault.File, error) {
	sorted := slices.Clone(files)
	if field == "" {
		return sorted, nil
	}
	compare, ok := s.fields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.ValidFields(), ", "))
	}

	slices.SortStableFunc(sorted, func(a, b vault.File) int {
		if order == SortOrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted, nil
}
