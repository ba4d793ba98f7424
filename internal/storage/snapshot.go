package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/config"
)

// SnapshotStore publishes decision exports to an S3-compatible bucket.
type SnapshotStore struct {
	client *minio.Client
	bucket string
}

func NewSnapshotStore(cfg config.SnapshotConfig) (*SnapshotStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("snapshot endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("snapshot credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("snapshot bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	return &SnapshotStore{client: client, bucket: cfg.Bucket}, nil
}

// Upload writes one object under the given key.
func (s *SnapshotStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}
