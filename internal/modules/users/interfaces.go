package users

import (
	"context"

	"foodgram/internal/pkg/imagedata"
)

// ImageStore persists avatar files and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, folder string, img *imagedata.Image) (string, error)
	Delete(ctx context.Context, url string) error
}
