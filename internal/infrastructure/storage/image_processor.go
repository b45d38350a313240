package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	adapter "github.com/marcos-nsantos/property-listings-backend/internal/adapter/storage"
	"github.com/marcos-nsantos/property-listings-backend/internal/domain"
)

const (
	DefaultMaxPixels = 50_000_000

	outputContentType = "image/jpeg"
	outputExtension   = ".jpg"
	readChunkSize     = 32 << 10
)

// decodable lists the image.Decode format names accepted as upload sources.
var decodable = map[string]bool{
	"jpeg": true,
	"png":  true,
	"webp": true,
}

type ImageProcessorImpl struct {
	maxPixels int
	// afterStep runs at every suspension point of render.
	afterStep func(step string)
}

func NewImageProcessor() *ImageProcessorImpl {
	return &ImageProcessorImpl{maxPixels: DefaultMaxPixels}
}

func NewImageProcessorWithLimit(maxPixels int) *ImageProcessorImpl {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &ImageProcessorImpl{maxPixels: maxPixels}
}

// Transform reads the whole source, orients it, fits it inside the
// configured bounds and re-encodes it as JPEG, optionally with a cropped
// thumbnail. Once ctx is done it stops at the next suspension point: a read
// chunk, or the end of decode, fit or encode. No work outlives the call.
func (p *ImageProcessorImpl) Transform(ctx context.Context, reader io.Reader, opts adapter.TransformOptions) (*adapter.TransformResult, error) {
	opts = normalizeOptions(opts)

	data, err := readAll(ctx, reader)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, domain.ErrImageTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reading image: %v", domain.ErrCorruptImage, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, domain.ErrUnsupportedImageFormat
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptImage, err)
	}
	if !decodable[format] {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedImageFormat, format)
	}
	if cfg.Width*cfg.Height > p.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", domain.ErrImageTooLarge, cfg.Width, cfg.Height, p.maxPixels)
	}

	return p.render(ctx, data, opts)
}

func (p *ImageProcessorImpl) render(ctx context.Context, data []byte, opts adapter.TransformOptions) (*adapter.TransformResult, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptImage, err)
	}
	if err := p.checkpoint(ctx, "decode"); err != nil {
		return nil, err
	}

	src = flatten(src)
	main := imaging.Fit(src, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
	if err := p.checkpoint(ctx, "fit"); err != nil {
		return nil, err
	}

	result := &adapter.TransformResult{
		Width:       main.Bounds().Dx(),
		Height:      main.Bounds().Dy(),
		ContentType: outputContentType,
		Extension:   outputExtension,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		encoded, err := encodeJPEG(gctx, main, opts.Quality)
		if err != nil {
			return fmt.Errorf("encoding main image: %w", err)
		}
		result.Main = encoded
		return nil
	})
	if opts.GenerateThumbnail {
		g.Go(func() error {
			thumb := imaging.Fill(src, opts.ThumbnailWidth, opts.ThumbnailHeight, imaging.Center, imaging.Lanczos)
			encoded, err := encodeJPEG(gctx, thumb, opts.Quality)
			if err != nil {
				return fmt.Errorf("encoding thumbnail: %w", err)
			}
			result.Thumbnail = encoded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := p.checkpoint(ctx, "encode"); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *ImageProcessorImpl) checkpoint(ctx context.Context, step string) error {
	if p.afterStep != nil {
		p.afterStep(step)
	}
	return ctx.Err()
}

func encodeJPEG(ctx context.Context, img image.Image, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flatten composites images with transparency over white so the JPEG
// encoder does not turn transparent pixels black.
func flatten(img image.Image) image.Image {
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return img
	}
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// readAll is io.ReadAll with a ctx check between chunks.
func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func normalizeOptions(opts adapter.TransformOptions) adapter.TransformOptions {
	def := adapter.DefaultTransformOptions()
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = def.Quality
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = def.MaxWidth
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = def.MaxHeight
	}
	if opts.ThumbnailWidth <= 0 {
		opts.ThumbnailWidth = def.ThumbnailWidth
	}
	if opts.ThumbnailHeight <= 0 {
		opts.ThumbnailHeight = def.ThumbnailHeight
	}
	return opts
}
