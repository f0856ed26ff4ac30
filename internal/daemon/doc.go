// Package daemon combines the catalog store, blob store, ingest
// orchestration, and HTTP API into a single lifecycle with flock-based
// locking to prevent multiple concurrent instances.
package daemon
