package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/property-listings-backend/internal/domain/entity"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/repository_mocks.go -package=mocks

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	UpdatePrimaryImage(ctx context.Context, id uuid.UUID, url string) error
}

type ImageRepository interface {
	Create(ctx context.Context, asset *entity.ImageAsset) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ImageAsset, error)
	ListByListingID(ctx context.Context, listingID uuid.UUID) ([]entity.ImageAsset, error)
	Update(ctx context.Context, asset *entity.ImageAsset) error
	Delete(ctx context.Context, id uuid.UUID) error
}
