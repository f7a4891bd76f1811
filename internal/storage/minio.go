package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// minioStore uploads objects to a MinIO (or other S3-compatible) server.
type minioStore struct {
	client   *minio.Client
	endpoint string
	bucket   string
	secure   bool
	logger   zerolog.Logger
}

// NewMinioStore connects to MinIO and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, secure bool, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "minio-store").Logger()

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		logger.Info().Str("bucket", bucket).Msg("bucket created")
	}

	logger.Info().Str("endpoint", endpoint).Str("bucket", bucket).Msg("MinIO store initialised")

	return &minioStore{
		client:   client,
		endpoint: endpoint,
		bucket:   bucket,
		secure:   secure,
		logger:   logger,
	}, nil
}

// Put uploads the object to the bucket.
func (s *minioStore) Put(ctx context.Context, obj Object) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, obj.Name, bytes.NewReader(obj.Data), int64(len(obj.Data)),
		minio.PutObjectOptions{ContentType: obj.ContentType})
	if err != nil {
		s.logger.Error().Err(err).Str("object", obj.Name).Msg("failed to put object to MinIO")
		return "", fmt.Errorf("failed to put object %s: %w", obj.Name, err)
	}

	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, obj.Name), nil
}
