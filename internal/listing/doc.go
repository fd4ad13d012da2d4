// Package listing implements the paginated, searchable, filterable listing engine
// shared by every vault view (own files, received files, shared files).
//
// The package is split into four pieces:
//   - ComputeRange: the compressed page-number range (with ellipsis markers) shown
//     under a listing
//   - QueryState: current page, page size, keyword and filter, plus the request
//     parameters derived from them
//   - Engine: drives a QueryState against a DataSource and owns the current page
//     snapshot
//   - ApplyFilter: the local sensitivity filter
//
// The sensitivity filter narrows the records of the current page only. It is not a
// server-side query parameter, so a page may show fewer rows than its page size
// while a filter is active.
package listing
