package tui

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rshade/vaultctl/internal/listing"
	"github.com/rshade/vaultctl/internal/vault"
)

const createdLayout = "2006-01-02 15:04"

//nolint:gochecknoglobals // cases.Caser is safe to share for String calls.
var titleCaser = cases.Title(language.English)

// Columns returns the column titles for a collection. Own files show their
// description and upload time; shared collections show the counterpart and the
// sensitivity flag instead.
func Columns(c vault.Collection) []string {
	switch c {
	case vault.CollectionReceived:
		return []string{"ID", "Name", "Category", "From", "Sensitive"}
	case vault.CollectionShared:
		return []string{"ID", "Name", "Category", "To", "Sensitive"}
	default:
		return []string{"ID", "Name", "Category", "Description", "Created"}
	}
}

// Row formats f as the cells matching Columns(c).
func Row(c vault.Collection, f vault.File) []string {
	base := []string{
		strconv.FormatInt(f.ID, 10),
		f.Filename,
		CategoryLabel(f.Category),
	}
	switch c {
	case vault.CollectionReceived:
		return append(base, orDash(f.SenderName), SensitivityLabel(f.Sensitivity()))
	case vault.CollectionShared:
		return append(base, orDash(f.ReceiverName), SensitivityLabel(f.Sensitivity()))
	default:
		return append(base, orDash(f.Description), CreatedLabel(f))
	}
}

// CategoryLabel title-cases a category name for display.
func CategoryLabel(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "-"
	}
	return titleCaser.String(category)
}

// SensitivityLabel renders the tri-state flag.
func SensitivityLabel(s listing.Sensitivity) string {
	switch s {
	case listing.Sensitive:
		return "yes"
	case listing.NotSensitive:
		return "no"
	case listing.SensitivityUnknown:
		return "-"
	default:
		return "-"
	}
}

// CreatedLabel renders the creation time, or the raw value when it does not parse.
func CreatedLabel(f vault.File) string {
	if t, ok := f.Created(); ok {
		return t.Format(createdLayout)
	}
	return orDash(f.CreatedAt)
}

// RangeText renders a page range as "1 … 4 (5) 6 … 10", marking the current
// 0-based page with parentheses. highlight styles the current page on top.
func RangeText(entries []listing.RangeEntry, current int, highlight bool) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsPage() {
			parts = append(parts, "…")
			continue
		}
		label := strconv.Itoa(e.Page)
		if e.Page == current+1 {
			label = "(" + label + ")"
			if highlight {
				label = CurrentPageStyle.Render(label)
			}
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

// PageFooter renders "Page 5 of 10  [1 … (5) … 10]", or "No pages" for an
// empty collection.
func PageFooter(meta listing.PageMetadata, entries []listing.RangeEntry, highlight bool) string {
	if meta.TotalPages <= 0 {
		return "No pages"
	}
	return "Page " + strconv.Itoa(meta.PageNumber+1) + " of " + strconv.Itoa(meta.TotalPages) +
		"  [" + RangeText(entries, meta.PageNumber, highlight) + "]"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
