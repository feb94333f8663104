// Package storage publishes generated artifacts to durable object storage.
package storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"vistoria.app/api/config"
)

// Storage stores bytes under key and returns the public URL of the object.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// New selects the backend named by cfg.StorageDriver.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (Storage, error) {
	log = log.Named("storage")
	switch cfg.StorageDriver {
	case "gcs":
		return NewGCS(ctx, cfg.GCSBucket, cfg.GCSPublicBaseURL, log)
	case "supabase":
		return NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, log)
	case "local", "":
		return NewLocal(cfg.LocalUploadDir, cfg.PublicBaseURL+"/uploads", log)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return key, nil
}
