package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/campustour/tour-api/internal/domain"
)

func NewClient(endpoint, key, secret string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: useSSL,
	})
}

// MediaStorage uploads images into a single bucket. Asset ids are object keys
// of the form folder/uuid.ext, so destroying an asset needs nothing else.
type MediaStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

func NewMediaStorage(client *minio.Client, bucket, publicBase string) *MediaStorage {
	return &MediaStorage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(strings.TrimSpace(publicBase), "/"),
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MediaStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio make bucket: %w", err)
	}
	return nil
}

func (s *MediaStorage) Upload(ctx context.Context, folder string, data []byte, contentType string) (*domain.Asset, error) {
	if len(data) == 0 {
		return nil, errors.New("minio: empty upload")
	}
	objectName := ObjectName(folder, contentType)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("minio put %s: %w", objectName, err)
	}
	return &domain.Asset{URL: s.PublicURL(objectName), AssetID: objectName}, nil
}

func (s *MediaStorage) Destroy(ctx context.Context, assetID string) error {
	if strings.TrimSpace(assetID) == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, assetID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove %s: %w", assetID, err)
	}
	return nil
}

// PublicURL returns the address clients use to fetch an object.
func (s *MediaStorage) PublicURL(objectName string) string {
	base := s.publicBase
	if base == "" {
		base = s.client.EndpointURL().String()
	}
	return base + "/" + s.bucket + "/" + objectName
}

// ObjectName builds a unique key inside folder with an extension that
// matches the content type.
func ObjectName(folder, contentType string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	name := uuid.NewString() + extensionFor(contentType)
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
