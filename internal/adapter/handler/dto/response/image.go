package response

import (
	"time"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/property-listings-backend/internal/domain/entity"
)

type ImageResponse struct {
	ID           uuid.UUID `json:"id"`
	ListingID    uuid.UUID `json:"listing_id"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	AltText      string    `json:"alt_text,omitempty"`
	Order        int       `json:"order"`
	MimeType     string    `json:"mime_type"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

type ImagesListResponse struct {
	Images []ImageResponse `json:"images"`
}

func ImageFromEntity(a *entity.ImageAsset) ImageResponse {
	return ImageResponse{
		ID:           a.ID,
		ListingID:    a.ListingID,
		URL:          a.URL,
		ThumbnailURL: a.ThumbnailURL,
		AltText:      a.AltText,
		Order:        a.Order,
		MimeType:     a.MimeType,
		Width:        a.Width,
		Height:       a.Height,
		SizeBytes:    a.SizeBytes,
		CreatedAt:    a.CreatedAt,
	}
}

func ImagesFromEntities(assets []entity.ImageAsset) ImagesListResponse {
	resp := ImagesListResponse{Images: make([]ImageResponse, 0, len(assets))}
	for i := range assets {
		resp.Images = append(resp.Images, ImageFromEntity(&assets[i]))
	}
	return resp
}
