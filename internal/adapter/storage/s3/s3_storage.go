package s3

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const coverPrefix = "covers"

// CoverStorage stores book cover images in an S3-compatible bucket.
type CoverStorage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewCoverStorage connects to the endpoint and makes sure the bucket exists.
func NewCoverStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, log *logger.Logger) (*CoverStorage, error) {
	log = log.Named("CoverStorage")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client for %s: %w", endpoint, err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
		log.Info("Bucket created", zap.String("bucket", bucket))
	}

	return &CoverStorage{client: client, bucket: bucket, logger: log}, nil
}

// Upload stores the image under a fresh key and returns its public URL.
func (s *CoverStorage) Upload(ctx context.Context, fileName, contentType string, body io.Reader, size int64) (string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	key := fmt.Sprintf("%s/%s%s", coverPrefix, uuid.NewString(), ext)

	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error("Cover upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	s.logger.Info("Cover uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size))

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key), nil
}
