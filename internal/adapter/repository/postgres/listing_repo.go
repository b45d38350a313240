package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcos-nsantos/property-listings-backend/internal/domain"
	"github.com/marcos-nsantos/property-listings-backend/internal/domain/entity"
)

type ListingRepo struct {
	pool *pgxpool.Pool
}

func NewListingRepo(pool *pgxpool.Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

func (r *ListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	query := `
		INSERT INTO listings (id, agent_id, title, primary_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		listing.ID, listing.AgentID, listing.Title, listing.PrimaryImageURL,
		listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting listing: %w", err)
	}
	return nil
}

func (r *ListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	query := `
		SELECT id, agent_id, title, primary_image_url, created_at, updated_at, deleted_at
		FROM listings
		WHERE id = $1
	`
	var listing entity.Listing
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&listing.ID, &listing.AgentID, &listing.Title, &listing.PrimaryImageURL,
		&listing.CreatedAt, &listing.UpdatedAt, &listing.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("querying listing: %w", err)
	}
	return &listing, nil
}

// UpdatePrimaryImage sets the listing's primary image URL. An empty url
// clears it.
func (r *ListingRepo) UpdatePrimaryImage(ctx context.Context, id uuid.UUID, url string) error {
	query := `
		UPDATE listings
		SET primary_image_url = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.pool.Exec(ctx, query, id, url, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating primary image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
