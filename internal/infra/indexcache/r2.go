package indexcache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// R2Store keeps bundles in Cloudflare R2 (or any S3-compatible bucket).
type R2Store struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// R2Options configures the S3-compatible endpoint.
type R2Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
}

// NewR2Store constructs the storage adapter.
func NewR2Store(opts R2Options, logger *slog.Logger) (*R2Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(opts.Endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(opts.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       useSSL,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	prefix := strings.Trim(opts.Prefix, "/")
	if prefix == "" {
		prefix = "faq"
	}
	return &R2Store{
		client: client,
		bucket: opts.Bucket,
		prefix: prefix,
		logger: logger.With("component", "indexcache.r2"),
	}, nil
}

// Load implements faq.IndexStore.
func (s *R2Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, err
	}
	defer obj.Close()
	if _, err := obj.Stat(); err != nil {
		if isMissing(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, false, fmt.Errorf("read index object: %w", err)
	}
	return data, true, nil
}

// Save implements faq.IndexStore.
func (s *R2Store) Save(ctx context.Context, key string, payload []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.objectKey(key), bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:      "application/octet-stream",
		DisableMultipart: len(payload) < 5*1024*1024,
	})
	if err != nil {
		return err
	}
	s.logger.Debug("index bundle uploaded", "bucket", s.bucket, "key", s.objectKey(key), "bytes", len(payload))
	return nil
}

func (s *R2Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

func (s *R2Store) objectKey(fingerprint string) string {
	return path.Join(s.prefix, "index", fingerprint+".bin")
}

func isMissing(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return true
	}
	return false
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

var _ faq.IndexStore = (*R2Store)(nil)
