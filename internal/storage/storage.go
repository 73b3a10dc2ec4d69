// Package storage persists uploaded images on the local filesystem or in S3.
package storage

import (
	"context"
	"fmt"

	"github.com/pageza/recipe-api/backend/config"
)

// ImageStore saves image blobs under a relative key and reports the URL they
// are served from.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New returns the store selected by cfg.StorageBackend
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal:
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	case config.StorageS3:
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Store(s3Cfg.Client, s3Cfg.BucketName, s3Cfg.PublicURL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
