package ports

import (
	"context"

	"github.com/campustour/tour-api/internal/domain"
)

// MediaStorage uploads image bytes into a folder and returns the public URL
// together with the asset id needed to destroy it later.
type MediaStorage interface {
	Upload(ctx context.Context, folder string, data []byte, contentType string) (*domain.Asset, error)
	Destroy(ctx context.Context, assetID string) error
}
