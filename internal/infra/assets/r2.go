package assets

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// R2Resolver hands out presigned GET URLs for images kept in Cloudflare R2
// (or any S3-compatible bucket).
type R2Resolver struct {
	client *minio.Client
	bucket string
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewR2Resolver constructs the resolver. Keys are looked up under prefix.
func NewR2Resolver(endpoint, accessKey, secretKey, bucket, region, prefix string, ttl time.Duration, logger *slog.Logger) (*R2Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &R2Resolver{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		ttl:    ttl,
		logger: logger.With("component", "assets.r2"),
	}, nil
}

// ResolveImage presigns a GET for key.
func (r *R2Resolver) ResolveImage(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	object := strings.TrimLeft(key, "/")
	if r.prefix != "" {
		object = r.prefix + "/" + object
	}
	u, err := r.client.PresignedGetObject(ctx, r.bucket, object, r.ttl, url.Values{})
	if err != nil {
		r.logger.Warn("presign failed", "object", object, "error", err)
		return "", err
	}
	return u.String(), nil
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		raw = parts[0]
	}
	return raw
}
