package recipes

import (
	"context"

	"foodgram/internal/pkg/imagedata"
)

// ImageStore persists decoded recipe images (storage.Disk in production).
type ImageStore interface {
	Save(ctx context.Context, folder string, img *imagedata.Image) (string, error)
	Delete(ctx context.Context, url string) error
}
