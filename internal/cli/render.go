package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/vaultctl/internal/listing"
	"github.com/rshade/vaultctl/internal/tui"
	"github.com/rshade/vaultctl/internal/vault"
)

// printer formats counts with thousands separators.
var printer = message.NewPrinter(language.English) //nolint:gochecknoglobals // Stateless formatter

// renderFileTable writes one page of files as an aligned table followed by the
// page footer and a count line.
func renderFileTable(
	w io.Writer,
	collection vault.Collection,
	files []vault.File,
	snap listing.Snapshot[vault.File],
	styled bool,
) error {
	title := collection.Title()
	if kw := snap.Query.ActiveKeyword(); kw != "" {
		title += fmt.Sprintf(" matching %q", kw)
	}
	if styled {
		title = tui.HeaderStyle.Render(title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	if len(snap.Records) == 0 {
		_, err := fmt.Fprintln(w, tui.EmptyText(collection, snap.Query.Searching()))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd // Standard tabwriter padding.
	columns := tui.Columns(collection)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	dashes := make([]string, len(columns))
	for i, c := range columns {
		dashes[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))
	for _, f := range files {
		fmt.Fprintln(tw, strings.Join(tui.Row(collection, f), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, tui.PageFooter(snap.Metadata, snap.Range, styled))
	_, err := fmt.Fprintln(w, countLine(snap, len(files)))
	return err
}

// countLine summarizes how many rows are shown.
func countLine(snap listing.Snapshot[vault.File], shown int) string {
	if snap.Query.Filter != listing.FilterAll {
		return printer.Sprintf("Showing %d of %d files on this page (filter: %s), %d in total",
			shown, len(snap.Records), snap.Query.Filter, snap.Metadata.TotalElements)
	}
	return printer.Sprintf("Showing %d of %d files", shown, snap.Metadata.TotalElements)
}
