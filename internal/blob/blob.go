// Package blob stores recording artifacts under stable string keys. Two
// backends exist: a local filesystem tree for self-hosted deployments and a
// Google Cloud Storage bucket for hosted ones. Keys use forward slashes
// regardless of backend ("recordings/raw/<id>_raw.wav").
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"glossa/internal/config"
)

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("blob: object not found")

// Store persists recording artifacts under stable keys.
type Store interface {
	// Put uploads the local file at srcPath under key and returns a URL or
	// path a client can fetch the object from.
	Put(ctx context.Context, key, srcPath, contentType string) (string, error)
	// Open streams a stored object.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// URL returns a fetchable location for the object without opening it.
	URL(ctx context.Context, key string) (string, error)
	// Delete removes the object. Deleting a missing key returns ErrNotFound.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// New builds the store selected by the configuration.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendFS:
		return NewFS(cfg.Storage.RootDir)
	case config.StorageBackendGCS:
		return NewGCS(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// RawKey returns the canonical key for an original upload.
func RawKey(recordingID, ext string) string {
	if ext == "" {
		ext = ".wav"
	}
	return "recordings/raw/" + recordingID + "_raw" + ext
}

// CleanKey returns the canonical key for a processed recording.
func CleanKey(recordingID string) string {
	return "recordings/clean/" + recordingID + "_clean.wav"
}

// SidecarKey returns the canonical key for the processing metadata document.
func SidecarKey(recordingID string) string {
	return "recordings/clean/" + recordingID + "_clean_metadata.json"
}
