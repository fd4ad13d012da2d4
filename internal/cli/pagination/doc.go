// Package pagination holds the flag handling, sorting and metadata envelope
// shared by the file listing commands.
//
//   - Params: --page, --page-size, --search, --filter and --sort validation
//   - Meta: the pagination block printed with JSON output
//   - FileSorter: stable in-page sorting of vault files
//
// Sorting only reorders the page already fetched; it never changes which
// records the server returns.
package pagination
