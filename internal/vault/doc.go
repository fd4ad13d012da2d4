// Package vault is the HTTP client for the document vault backend.
//
// It covers the two-step sign in (password, then one-time code), the three
// paged listing endpoints and the file operations (upload, download, delete,
// share). Authentication rides on the session cookie set by the backend after
// the code is verified; the client keeps it in a cookie jar that can be
// exported and restored between runs.
//
// Source adapts one collection to listing.DataSource so the listing engine can
// page through it without knowing about HTTP.
package vault
