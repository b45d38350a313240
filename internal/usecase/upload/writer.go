package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/storage"
)

type writeResult struct {
	Key          string
	URL          string
	ThumbnailKey string
	ThumbnailURL string
	SizeBytes    int64
}

// assetWriter persists transform output under keys derived from the
// attempt id.
type assetWriter struct {
	storage  storage.ImageStorage
	category string
	logger   *zap.Logger
}

func imageKey(category, id, ext string) string {
	return path.Join(category, "images", id+ext)
}

func thumbnailKey(category, id, ext string) string {
	return path.Join(category, "thumbnails", "thumb_"+id+ext)
}

// write stores the main image and optional thumbnail. On failure every key
// written by this call is removed before the error is returned.
func (w *assetWriter) write(ctx context.Context, a *Attempt, result *storage.TransformResult) (*writeResult, error) {
	id := a.ID().String()
	out := &writeResult{
		Key:       imageKey(w.category, id, result.Extension),
		SizeBytes: int64(len(result.Main)),
	}

	var written []string
	put := func(key string, data []byte) error {
		// A failed upload may still have left bytes behind, so the key is
		// tracked before the call.
		a.Track(key)
		written = append(written, key)
		if err := w.storage.Upload(ctx, key, bytes.NewReader(data), result.ContentType, int64(len(data))); err != nil {
			return fmt.Errorf("uploading %s: %w", key, err)
		}
		return nil
	}

	err := put(out.Key, result.Main)
	if err == nil && result.HasThumbnail() {
		out.ThumbnailKey = thumbnailKey(w.category, id, result.Extension)
		err = put(out.ThumbnailKey, result.Thumbnail)
	}
	if err != nil {
		w.rollback(ctx, a, written)
		return nil, classifyWriteError(ctx, err)
	}

	out.URL = w.storage.GetURL(out.Key)
	if out.ThumbnailKey != "" {
		out.ThumbnailURL = w.storage.GetURL(out.ThumbnailKey)
	}
	return out, nil
}

func (w *assetWriter) rollback(ctx context.Context, a *Attempt, keys []string) {
	ctx, cancel := detachedContext(ctx)
	defer cancel()
	for _, key := range keys {
		if err := w.storage.Delete(ctx, key); err != nil {
			w.logger.Warn("failed to remove partial write",
				zap.String("attempt_id", a.ID().String()),
				zap.String("key", key),
				zap.Error(err),
			)
			continue
		}
		a.forget(key)
	}
}
