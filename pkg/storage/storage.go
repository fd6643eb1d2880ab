package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/printgate/printgate/pkg/config"
)

// ObjectStore abstracts the backing document store. Keys are opaque storage
// locators; the store never interprets them.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// New selects an object store implementation from configuration.
func New(cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		return NewS3Store(cfg)
	case config.StorageDriverLocal, "":
		return NewLocalStore(cfg.BaseDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
