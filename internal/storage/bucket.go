// Package storage uploads course media to object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/SAP-F-2025/edusync-service/internal/config"
)

// ErrStorageDisabled is returned by uploads when no bucket is configured
var ErrStorageDisabled = errors.New("object storage is not configured")

// BucketService stores objects and resolves the URL clients fetch them from
type BucketService interface {
	// Upload writes r under key and returns the object's public URL
	Upload(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// ObjectKey builds a collision-free key for an uploaded file, keeping its extension
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.NewString(), ext)
}

type GCSBucket struct {
	client        *storage.Client
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// NewBucketService returns a GCS-backed service, or a disabled one when no bucket is set
func NewBucketService(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (BucketService, error) {
	if cfg.Bucket == "" {
		logger.Warn("Object storage disabled, course uploads will be rejected")
		return DisabledBucket{}, nil
	}

	var opts []option.ClientOption
	publicBaseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if host := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"); host != "" {
		opts = append(opts,
			option.WithEndpoint(host+"/storage/v1/"),
			option.WithoutAuthentication(),
		)
		if publicBaseURL == "" {
			publicBaseURL = host
		}
	} else {
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	logger.Info("Object storage initialized",
		"bucket", cfg.Bucket,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", publicBaseURL)

	return &GCSBucket{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
		logger:        logger.With("service", "BucketService"),
	}, nil
}

func (b *GCSBucket) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	b.logger.InfoContext(ctx, "Object uploaded", "key", key)
	return b.PublicURL(key), nil
}

func (b *GCSBucket) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := b.client.Bucket(b.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, b.bucket, err)
	}
	return nil
}

func (b *GCSBucket) PublicURL(key string) string {
	return publicURL(b.publicBaseURL, b.bucket, key)
}

func (b *GCSBucket) Close() error {
	return b.client.Close()
}

func publicURL(baseURL, bucket, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if baseURL != "" {
		return fmt.Sprintf("%s/%s/%s", baseURL, bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

// DisabledBucket rejects every write
type DisabledBucket struct{}

func (DisabledBucket) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	return "", ErrStorageDisabled
}

func (DisabledBucket) Delete(ctx context.Context, key string) error {
	return ErrStorageDisabled
}

func (DisabledBucket) PublicURL(key string) string {
	return ""
}
