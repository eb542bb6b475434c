package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"hermes/hermes/config"
	"hermes/hermes/utils/logging"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// DatasetPrefix is where uploaded shipment files live inside the bucket.
const DatasetPrefix = "datasets"

type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	if cfg.DatasetBucket == "" {
		return nil, fmt.Errorf("DATASET_BUCKET is not configured")
	}
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOUseSSL,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.DatasetBucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.DatasetBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
		logging.AppLogger.Info("created dataset bucket", zap.String("bucket", cfg.DatasetBucket))
	}
	return &MinIOClient{client: client, bucket: cfg.DatasetBucket}, nil
}

// DatasetKey maps a file name to its object key.
func DatasetKey(name string) string {
	return path.Join(DatasetPrefix, path.Base(name))
}

// UploadDataset stores a shipment CSV and returns its key.
func (m *MinIOClient) UploadDataset(ctx context.Context, name string, data []byte) (string, error) {
	key := DatasetKey(name)
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// Fetch reads a whole object.
func (m *MinIOClient) Fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}
