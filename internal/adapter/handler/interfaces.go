package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/property-listings-backend/internal/domain/entity"
	"github.com/marcos-nsantos/property-listings-backend/internal/usecase/upload"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/handler_mocks.go -package=mocks

type ImageService interface {
	Upload(ctx context.Context, input upload.UploadInput) (*entity.ImageAsset, error)
	List(ctx context.Context, listingID uuid.UUID) ([]entity.ImageAsset, error)
	Update(ctx context.Context, input upload.UpdateInput) (*entity.ImageAsset, error)
	Delete(ctx context.Context, userID, imageID uuid.UUID) error
}
