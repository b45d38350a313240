package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type ImageAsset struct {
	ID           uuid.UUID
	ListingID    uuid.UUID
	URL          string
	Key          string
	ThumbnailURL string
	ThumbnailKey string
	AltText      string
	Order        int
	MimeType     string
	Width        int
	Height       int
	SizeBytes    int64
	CreatedAt    time.Time
}

func NewImageAsset(id, listingID uuid.UUID, url, key, mimeType string, sizeBytes int64, width, height int) *ImageAsset {
	return &ImageAsset{
		ID:        id,
		ListingID: listingID,
		URL:       url,
		Key:       key,
		MimeType:  mimeType,
		SizeBytes: sizeBytes,
		Width:     width,
		Height:    height,
		CreatedAt: time.Now().UTC(),
	}
}

func (a *ImageAsset) HasThumbnail() bool {
	return a.ThumbnailKey != ""
}

// Keys returns every storage key backing the asset.
func (a *ImageAsset) Keys() []string {
	keys := []string{a.Key}
	if a.HasThumbnail() {
		keys = append(keys, a.ThumbnailKey)
	}
	return keys
}

// SortImageAssets orders assets by Order, oldest first on ties.
func SortImageAssets(assets []ImageAsset) {
	sort.SliceStable(assets, func(i, j int) bool {
		if assets[i].Order != assets[j].Order {
			return assets[i].Order < assets[j].Order
		}
		return assets[i].CreatedAt.Before(assets[j].CreatedAt)
	})
}

// NextImageOrder returns the lowest positive order not used by assets.
func NextImageOrder(assets []ImageAsset) int {
	used := make(map[int]struct{}, len(assets))
	for _, a := range assets {
		used[a.Order] = struct{}{}
	}
	next := 1
	for {
		if _, taken := used[next]; !taken {
			return next
		}
		next++
	}
}

type ImageEventType string

const (
	ImageCreated ImageEventType = "image.created"
	ImageDeleted ImageEventType = "image.deleted"
)

type ImageEvent struct {
	Type       ImageEventType `json:"type"`
	ImageID    uuid.UUID      `json:"image_id"`
	ListingID  uuid.UUID      `json:"listing_id"`
	URL        string         `json:"url"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewImageEvent(eventType ImageEventType, asset *ImageAsset) ImageEvent {
	return ImageEvent{
		Type:       eventType,
		ImageID:    asset.ID,
		ListingID:  asset.ListingID,
		URL:        asset.URL,
		OccurredAt: time.Now().UTC(),
	}
}
