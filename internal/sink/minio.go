// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pdiddy/litreview/pkg/types"
)

// Minio uploads report files into a bucket under prefix/runID/.
type Minio struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinio connects to the configured server and creates the bucket when
// it does not exist.
func NewMinio(ctx context.Context, cfg types.MinioConfig, runID string) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &Minio{client: client, bucket: cfg.Bucket, prefix: path.Join(cfg.Prefix, runID)}, nil
}

// Key returns the object key for a report file.
func (m *Minio) Key(name string) string {
	return path.Join(m.prefix, name)
}

func (m *Minio) Location() string {
	return "s3://" + m.bucket + "/" + m.prefix
}

func (m *Minio) Write(ctx context.Context, name string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, m.Key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentType(name),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", name, err)
	}
	return nil
}
