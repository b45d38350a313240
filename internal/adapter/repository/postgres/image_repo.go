package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcos-nsantos/property-listings-backend/internal/domain"
	"github.com/marcos-nsantos/property-listings-backend/internal/domain/entity"
)

const imageColumns = `id, listing_id, url, key, thumbnail_url, thumbnail_key, alt_text,
		sort_order, mime_type, size_bytes, width, height, created_at`

type ImageRepo struct {
	pool *pgxpool.Pool
}

func NewImageRepo(pool *pgxpool.Pool) *ImageRepo {
	return &ImageRepo{pool: pool}
}

func (r *ImageRepo) Create(ctx context.Context, asset *entity.ImageAsset) error {
	query := `
		INSERT INTO listing_images (` + imageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		asset.ID, asset.ListingID, asset.URL, asset.Key, asset.ThumbnailURL, asset.ThumbnailKey,
		asset.AltText, asset.Order, asset.MimeType, asset.SizeBytes, asset.Width, asset.Height,
		asset.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting image: %w", err)
	}
	return nil
}

func (r *ImageRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ImageAsset, error) {
	query := `SELECT ` + imageColumns + ` FROM listing_images WHERE id = $1`

	asset, err := scanImage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("querying image: %w", err)
	}
	return asset, nil
}

func (r *ImageRepo) ListByListingID(ctx context.Context, listingID uuid.UUID) ([]entity.ImageAsset, error) {
	query := `
		SELECT ` + imageColumns + `
		FROM listing_images
		WHERE listing_id = $1
		ORDER BY sort_order ASC, created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	var assets []entity.ImageAsset
	for rows.Next() {
		asset, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		assets = append(assets, *asset)
	}

	return assets, rows.Err()
}

// Update writes the mutable fields of an asset: alt text and order.
func (r *ImageRepo) Update(ctx context.Context, asset *entity.ImageAsset) error {
	query := `
		UPDATE listing_images
		SET alt_text = $2, sort_order = $3
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, asset.ID, asset.AltText, asset.Order)
	if err != nil {
		return fmt.Errorf("updating image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

func (r *ImageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM listing_images WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

func scanImage(row pgx.Row) (*entity.ImageAsset, error) {
	var asset entity.ImageAsset
	err := row.Scan(
		&asset.ID, &asset.ListingID, &asset.URL, &asset.Key, &asset.ThumbnailURL, &asset.ThumbnailKey,
		&asset.AltText, &asset.Order, &asset.MimeType, &asset.SizeBytes, &asset.Width, &asset.Height,
		&asset.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &asset, nil
}
