// Package store persists the recording catalog: contributors and their
// recordings, backed by SQLite.
//
// Rows carry pre-folded search columns so lookups match regardless of
// diacritics; use the provided search operations rather than raw LIKE
// queries. All write paths retry on SQLITE_BUSY with exponential backoff so
// concurrent API requests and daemon work do not surface lock errors.
package store
