// Package notifications sends push notifications about ingest activity via
// ntfy. An unset topic yields a noop service, so callers never need to
// guard notification calls.
package notifications
