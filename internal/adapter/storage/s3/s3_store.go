package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
)

const objectPrefix = "photos/"

// Store implements the file-store contract on top of a MinIO/S3 bucket.
// Objects are keyed "photos/<uuid><ext>" and addressed by the bucket URL.
type Store struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewStore connects to the object store and ensures the bucket exists.
func NewStore(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*Store, error) {
	log.Info("Initializing S3 file store", zap.String("endpoint", endpoint), zap.String("bucket", bucketName), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Error("Failed to create MinIO client", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	if err := client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists != nil || !exists {
			log.Error("Failed to make or verify bucket", zap.String("bucket", bucketName), zap.Error(err))
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
	}

	return &Store{
		client: client,
		bucket: bucketName,
		logger: log.Named("S3Store"),
	}, nil
}

// Store uploads the file under a generated unique key and returns its URL.
func (s *Store) Store(ctx context.Context, originalName string, data []byte) (string, error) {
	cleaned := filepath.Clean(originalName)
	if strings.Contains(cleaned, "..") {
		s.logger.Warn("Rejected filename with path traversal sequence", zap.String("filename", originalName))
		return "", fmt.Errorf("%w: filename contains invalid path sequence %s", domain.ErrStorage, originalName)
	}

	objectKey := objectPrefix + uuid.New().String() + filepath.Ext(cleaned)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return "", fmt.Errorf("%w: could not store file %s: %v", domain.ErrStorage, originalName, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.logger.Debug("File uploaded",
		zap.String("original_filename", originalName),
		zap.String("key", objectKey),
		zap.Int("size_bytes", len(data)))
	return url, nil
}

// StoreAll uploads every file and returns their URLs in input order.
func (s *Store) StoreAll(ctx context.Context, files []domain.File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.Store(ctx, f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Delete removes the object a URL points at. Removing an absent object is not
// an error (the S3 API treats it as a no-op).
func (s *Store) Delete(ctx context.Context, url string) error {
	name := url
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		name = url[idx+1:]
	}
	if name == "" || strings.Contains(name, "..") {
		return fmt.Errorf("%w: invalid file URL %s", domain.ErrStorage, url)
	}

	objectKey := objectPrefix + name
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("RemoveObject failed", zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return fmt.Errorf("%w: could not delete file %s: %v", domain.ErrStorage, url, err)
	}
	return nil
}

// DeleteAll removes every object the URLs point at, stopping at the first failure.
func (s *Store) DeleteAll(ctx context.Context, urls []string) error {
	for _, url := range urls {
		if err := s.Delete(ctx, url); err != nil {
			return err
		}
	}
	return nil
}

var _ domain.FileStore = (*Store)(nil)
