package storage

import (
	"context"
	"io"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/storage_mocks.go -package=mocks

// ImageStorage is durable byte storage addressed by slash-separated keys.
// Delete of a missing key is not an error.
type ImageStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) error
	GetURL(key string) string
	Delete(ctx context.Context, key string) error
}

type ImageProcessor interface {
	Transform(ctx context.Context, reader io.Reader, opts TransformOptions) (*TransformResult, error)
}

type TransformOptions struct {
	Quality           int
	MaxWidth          int
	MaxHeight         int
	GenerateThumbnail bool
	ThumbnailWidth    int
	ThumbnailHeight   int
}

func DefaultTransformOptions() TransformOptions {
	return TransformOptions{
		Quality:           85,
		MaxWidth:          1920,
		MaxHeight:         1080,
		GenerateThumbnail: true,
		ThumbnailWidth:    300,
		ThumbnailHeight:   200,
	}
}

type TransformResult struct {
	Main        []byte
	Width       int
	Height      int
	Thumbnail   []byte
	ContentType string
	Extension   string
}

func (r *TransformResult) HasThumbnail() bool {
	return len(r.Thumbnail) > 0
}
