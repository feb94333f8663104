package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type GCS struct {
	client  *storage.Client
	bucket  string
	baseURL string
	log     *zap.Logger
}

// NewGCS uses application default credentials.
func NewGCS(ctx context.Context, bucket, publicBaseURL string, log *zap.Logger) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET")
	}
	client, err := storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCS{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		log:     log,
	}, nil
}

func (g *GCS) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	url := g.PublicURL(key)
	g.log.Info("object stored", zap.String("bucket", g.bucket), zap.String("key", key), zap.Int("bytes", len(data)))
	return url, nil
}

func (g *GCS) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", g.baseURL, g.bucket, key)
}

func (g *GCS) Close() error {
	return g.client.Close()
}
