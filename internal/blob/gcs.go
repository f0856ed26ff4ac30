package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"glossa/internal/config"
)

// GCS stores objects in a Google Cloud Storage bucket. Reads are served
// through V4 signed URLs so the bucket can stay private.
type GCS struct {
	client    *storage.Client
	bucket    string
	prefix    string
	urlExpiry time.Duration
	timeout   time.Duration
}

// NewGCS creates the Cloud Storage backend from configuration. Credentials
// come from the configured service account file or application defaults.
func NewGCS(ctx context.Context, cfg *config.Config) (*GCS, error) {
	var opts []option.ClientOption
	if cfg.Storage.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Storage.GCSCredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{
		client:    client,
		bucket:    cfg.Storage.GCSBucket,
		prefix:    cfg.Storage.GCSPrefix,
		urlExpiry: time.Duration(cfg.Storage.URLExpirySeconds) * time.Second,
		timeout:   time.Duration(cfg.Storage.RequestTimeout) * time.Second,
	}, nil
}

func (s *GCS) objectName(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *GCS) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.objectName(key))
}

func (s *GCS) Put(ctx context.Context, key, srcPath, contentType string) (string, error) {
	file, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source %q: %w", srcPath, err)
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	writer := s.object(key).NewWriter(ctx)
	if contentType != "" {
		writer.ContentType = contentType
	}
	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("upload object %q: %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize object %q: %w", key, err)
	}
	return s.URL(ctx, key)
}

func (s *GCS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	reader, err := s.object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read object %q: %w", key, err)
	}
	return reader, nil
}

func (s *GCS) URL(ctx context.Context, key string) (string, error) {
	url, err := s.client.Bucket(s.bucket).SignedURL(s.objectName(key), &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(s.urlExpiry),
	})
	if err != nil {
		return "", fmt.Errorf("sign url for %q: %w", key, err)
	}
	return url, nil
}

func (s *GCS) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

func (s *GCS) Close() error {
	return s.client.Close()
}
