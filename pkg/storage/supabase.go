package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Supabase talks to the Supabase Storage REST API with the service role key.
// The first segment of a key names the bucket.
type Supabase struct {
	http    *resty.Client
	baseURL string
	log     *zap.Logger
}

func NewSupabase(baseURL, serviceKey string, log *zap.Logger) (*Supabase, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("missing env var SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY")
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60*time.Second).
		SetAuthToken(serviceKey).
		SetHeader("apikey", serviceKey)

	return &Supabase{http: client, baseURL: baseURL, log: log}, nil
}

// Put overwrites any existing object under key.
func (s *Supabase) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if !strings.Contains(key, "/") {
		return "", fmt.Errorf("object key %q has no bucket segment", key)
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(data).
		Put("/storage/v1/object/" + key)
	if err != nil {
		return "", fmt.Errorf("supabase upload: %w", err)
	}
	if resp.IsError() {
		s.log.Error("supabase upload rejected",
			zap.String("key", key),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return "", fmt.Errorf("supabase upload: status %d", resp.StatusCode())
	}

	s.log.Info("object stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return s.PublicURL(key), nil
}

func (s *Supabase) PublicURL(key string) string {
	return s.baseURL + "/storage/v1/object/public/" + key
}
