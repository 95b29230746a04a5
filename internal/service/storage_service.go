package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"mfd_crm_backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService stores KYC proof documents in a MinIO bucket. Only object
// keys are handed back to callers; documents themselves never travel through
// API responses.
type StorageService struct {
	client *minio.Client
	bucket string
}

func NewStorageService(cfg *config.StorageConfig) (*StorageService, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	s := &StorageService{client: client, bucket: cfg.MinioBucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return s, nil
}

// Upload stores a document under a generated key and returns that key.
func (s *StorageService) Upload(ctx context.Context, displayName string, reader io.Reader, size int64, contentType string) (string, error) {
	objectKey := fmt.Sprintf("kyc/%s/%s", uuid.New().String(), displayName)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", displayName, err)
	}
	return objectKey, nil
}

func (s *StorageService) Delete(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}

// PresignedURL returns a short-lived download link for a stored document.
func (s *StorageService) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
