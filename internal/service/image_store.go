package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/media"
	"github.com/campustour/tour-api/internal/repository/ports"
)

// imageStore checks uploads and hands them to media storage.
type imageStore struct {
	storage ports.MediaStorage
	limits  media.Limits
	log     *zap.Logger
}

func (s imageStore) upload(ctx context.Context, folder string, upload media.Upload) (*domain.Asset, error) {
	if s.storage == nil {
		return nil, ErrMediaUnavailable
	}
	img, err := media.Inspect(upload, s.limits)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrEmptyImage),
			errors.Is(err, media.ErrImageTooLarge),
			errors.Is(err, media.ErrUnsupportedImage),
			errors.Is(err, media.ErrImageDimensions):
			return nil, invalid(err.Error())
		}
		return nil, err
	}
	asset, err := s.storage.Upload(ctx, folder, img.Bytes, img.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return asset, nil
}

// destroy removes an asset without failing the caller; orphaned objects are
// only logged.
func (s imageStore) destroy(ctx context.Context, assetID string) {
	if s.storage == nil || assetID == "" {
		return
	}
	if err := s.storage.Destroy(ctx, assetID); err != nil {
		s.log.Warn("destroy media asset", zap.String("asset_id", assetID), zap.Error(err))
	}
}
