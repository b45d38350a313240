package upload

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/storage"
	"github.com/marcos-nsantos/property-listings-backend/internal/domain/entity"
)

type recorder struct {
	listings repository.ListingRepository
	images   repository.ImageRepository
	logger   *zap.Logger
}

// record persists the asset row. The first asset of a listing also becomes
// its primary image; if that update fails the row is removed again.
func (r *recorder) record(
	ctx context.Context,
	a *Attempt,
	written *writeResult,
	result *storage.TransformResult,
	input UploadInput,
) (*entity.ImageAsset, error) {
	existing, err := r.images.ListByListingID(ctx, a.ListingID())
	if err != nil {
		return nil, classifyMetadataError(ctx, fmt.Errorf("listing existing images: %w", err))
	}

	asset := entity.NewImageAsset(a.ID(), a.ListingID(), written.URL, written.Key,
		result.ContentType, written.SizeBytes, result.Width, result.Height)
	asset.ThumbnailKey = written.ThumbnailKey
	asset.ThumbnailURL = written.ThumbnailURL
	asset.AltText = input.AltText
	if input.Order != nil {
		asset.Order = *input.Order
	} else {
		asset.Order = entity.NextImageOrder(existing)
	}

	if err := r.images.Create(ctx, asset); err != nil {
		return nil, classifyMetadataError(ctx, fmt.Errorf("creating image record: %w", err))
	}

	if len(existing) == 0 {
		if err := r.listings.UpdatePrimaryImage(ctx, a.ListingID(), asset.URL); err != nil {
			r.undoCreate(ctx, a, asset)
			return nil, classifyMetadataError(ctx, fmt.Errorf("setting primary image: %w", err))
		}
	}

	return asset, nil
}

func (r *recorder) undoCreate(ctx context.Context, a *Attempt, asset *entity.ImageAsset) {
	ctx, cancel := detachedContext(ctx)
	defer cancel()
	if err := r.images.Delete(ctx, asset.ID); err != nil {
		r.logger.Error("failed to remove image record after primary image update failed",
			zap.String("attempt_id", a.ID().String()),
			zap.String("image_id", asset.ID.String()),
			zap.Error(err),
		)
	}
}
