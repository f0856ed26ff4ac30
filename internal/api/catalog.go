package api

import (
	"context"
	"errors"

	"glossa/internal/blob"
	"glossa/internal/store"
)

// CatalogReader abstracts the catalog queries the API layer needs.
type CatalogReader interface {
	ListRecordings(ctx context.Context, filter store.RecordingFilter) ([]store.Recording, error)
	GetRecording(ctx context.Context, id string) (store.Recording, error)
	CountRecordings(ctx context.Context) (map[store.Status]int, error)
	ListContributors(ctx context.Context, query string) ([]store.Contributor, error)
	GetContributor(ctx context.Context, id string) (store.Contributor, error)
}

// URLResolver resolves blob keys to client-reachable URLs.
type URLResolver interface {
	URL(ctx context.Context, key string) (string, error)
}

// CatalogService exposes read-only catalog operations returning API DTOs.
type CatalogService struct {
	catalog CatalogReader
	urls    URLResolver
}

// NewCatalogService constructs a CatalogService around the provided reader.
// The resolver may be nil, in which case StreamLinks is unavailable.
func NewCatalogService(catalog CatalogReader, urls URLResolver) *CatalogService {
	if catalog == nil {
		return nil
	}
	return &CatalogService{catalog: catalog, urls: urls}
}

// ListRecordings returns recordings matching the filter.
func (s *CatalogService) ListRecordings(ctx context.Context, filter store.RecordingFilter) ([]Recording, error) {
	if s == nil || s.catalog == nil {
		return nil, nil
	}
	rows, err := s.catalog.ListRecordings(ctx, filter)
	if err != nil {
		return nil, err
	}
	return FromStoreRecordings(rows), nil
}

// DescribeRecording fetches a single recording. Returns nil when absent.
func (s *CatalogService) DescribeRecording(ctx context.Context, id string) (*Recording, error) {
	if s == nil || s.catalog == nil {
		return nil, nil
	}
	row, err := s.catalog.GetRecording(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dto := FromStoreRecording(row)
	return &dto, nil
}

// StreamLinks resolves playback URLs for a recording's stored objects.
// Returns nil when the recording is absent.
func (s *CatalogService) StreamLinks(ctx context.Context, id string) (*StreamLinks, error) {
	if s == nil || s.catalog == nil || s.urls == nil {
		return nil, nil
	}
	row, err := s.catalog.GetRecording(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	links := StreamLinks{RecordingID: row.ID}
	resolve := func(key string, dst *string) error {
		if key == "" {
			return nil
		}
		url, err := s.urls.URL(ctx, key)
		if errors.Is(err, blob.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		*dst = url
		return nil
	}
	if err := resolve(row.RawKey, &links.RawURL); err != nil {
		return nil, err
	}
	if err := resolve(row.CleanKey, &links.CleanURL); err != nil {
		return nil, err
	}
	if err := resolve(row.SidecarKey, &links.SidecarURL); err != nil {
		return nil, err
	}
	return &links, nil
}

// Counts returns recording totals keyed by status string.
func (s *CatalogService) Counts(ctx context.Context) (map[string]int, error) {
	if s == nil || s.catalog == nil {
		return nil, nil
	}
	counts, err := s.catalog.CountRecordings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(counts))
	for status, n := range counts {
		out[string(status)] = n
	}
	return out, nil
}

// ListContributors returns contributors matching the name query.
func (s *CatalogService) ListContributors(ctx context.Context, query string) ([]Contributor, error) {
	if s == nil || s.catalog == nil {
		return nil, nil
	}
	rows, err := s.catalog.ListContributors(ctx, query)
	if err != nil {
		return nil, err
	}
	return FromStoreContributors(rows), nil
}

// DescribeContributor fetches a single contributor. Returns nil when absent.
func (s *CatalogService) DescribeContributor(ctx context.Context, id string) (*Contributor, error) {
	if s == nil || s.catalog == nil {
		return nil, nil
	}
	row, err := s.catalog.GetContributor(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dto := FromStoreContributor(row)
	return &dto, nil
}
