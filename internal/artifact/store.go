// Package artifact stores forecast model artifacts outside the relational
// database and resolves them per organization.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"

	"carbon-insights/pkg/config"
)

// ErrNotFound is returned by Open when no object exists at the key.
var ErrNotFound = errors.New("artifact not found")

// Store is a read/write key-value view over artifact storage.
type Store interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, r io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NewStore builds the backend selected by cfg.Backend.
func NewStore(ctx context.Context, cfg *config.ModelsConfig) (Store, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalStore(cfg.Dir)
	case "s3":
		return NewS3Store(ctx, &cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported model backend: %s (must be 'local' or 's3')", cfg.Backend)
	}
}
