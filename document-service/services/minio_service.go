package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"

	"cloudlens-backend/shared/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobStore holds raw document content addressed by document id
type BlobStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	Read(ctx context.Context, id string) (io.ReadCloser, error)
	Write(ctx context.Context, id string, r io.Reader, size int64) error
	Delete(ctx context.Context, id string) error
}

// MinIOService is the MinIO-backed BlobStore. Objects are keyed by document
// id; the folder hierarchy lives only in the document store.
type MinIOService struct {
	client     *minio.Client
	bucketName string
}

func NewMinIOService() (*MinIOService, error) {
	cfg := config.GetConfig()

	// Parse endpoint URL to get host
	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, useSSL)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &MinIOService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
	}

	// Test connection and create bucket if needed
	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *MinIOService) initializeBucket() error {
	ctx := context.Background()

	log.Printf("🪣 Checking bucket: %s", s.bucketName)

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	} else {
		log.Printf("✅ MinIO bucket '%s' already exists", s.bucketName)
	}

	return nil
}

// TestConnection verifies the MinIO deployment is reachable
func (s *MinIOService) TestConnection() error {
	ctx := context.Background()

	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %v", err)
	}

	log.Printf("✅ MinIO connection successful. Found %d buckets", len(buckets))
	return nil
}

// Exists checks whether content has been written for the document id
func (s *MinIOService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucketName, id, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %v", id, err)
	}
	return true, nil
}

// Read streams the stored content for the document id
func (s *MinIOService) Read(ctx context.Context, id string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, id, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %v", id, err)
	}
	return object, nil
}

// Write stores content for the document id, replacing any prior version
func (s *MinIOService) Write(ctx context.Context, id string, r io.Reader, size int64) error {
	log.Printf("⬆️ Writing blob %s/%s (size: %d bytes)", s.bucketName, id, size)

	_, err := s.client.PutObject(ctx, s.bucketName, id, r, size, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to write object %s: %v", id, err)
	}

	return nil
}

// Delete removes the stored content for the document id
func (s *MinIOService) Delete(ctx context.Context, id string) error {
	log.Printf("🗑️ Removing blob: %s/%s", s.bucketName, id)

	err := s.client.RemoveObject(ctx, s.bucketName, id, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove object %s: %v", id, err)
	}

	return nil
}
