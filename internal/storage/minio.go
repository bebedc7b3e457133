package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kliksy/kliksy-be/internal/config"
)

// MinioStore talks to an S3-compatible object store through minio-go.
type MinioStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

// NewMinio creates an object store client from the storage configuration.
func NewMinio(cfg config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: true,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	return &MinioStore{client: client, cfg: cfg}, nil
}

// Put uploads one object.
func (s *MinioStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if s.cfg.Bucket == "" {
		return fmt.Errorf("storage bucket is not configured")
	}
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// Remove deletes one object.
func (s *MinioStore) Remove(ctx context.Context, key string) error {
	if s.cfg.Bucket == "" {
		return fmt.Errorf("storage bucket is not configured")
	}
	return s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{})
}

// List returns all objects under the given prefix.
func (s *MinioStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if s.cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, ObjectInfo{Key: obj.Key, LastModified: obj.LastModified})
	}
	return objects, nil
}

// FileURL derives the public URL for a key.
func (s *MinioStore) FileURL(key string) string {
	return FileURL(s.cfg.CDNBaseURL, s.cfg.Bucket, key)
}
