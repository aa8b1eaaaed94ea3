package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pdfstamp/internal/config"
)

// objectStore implements Destination against an S3-compatible backend
// (MinIO, AWS S3, etc.). It is safe for concurrent use by multiple goroutines.
type objectStore struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a new S3-compatible destination backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (Destination, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &objectStore{client: cli, bucket: cfg.Bucket}, nil
}

// Exists reports whether an object of the given name is present in the bucket.
func (o *objectStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := o.client.StatObject(ctx, o.bucket, name, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}

// Write uploads the document and returns its object URI. The bucket is
// expected to be probed via Exists first; a same-name upload would replace
// the object, so Write re-checks before putting.
func (o *objectStore) Write(ctx context.Context, name string, data []byte) (string, error) {
	taken, err := o.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%w: %s/%s", ErrWouldOverwrite, o.bucket, name)
	}
	_, err = o.client.PutObject(ctx, o.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", name, err)
	}
	return fmt.Sprintf("s3://%s/%s", o.bucket, name), nil
}

var _ Destination = (*objectStore)(nil)
