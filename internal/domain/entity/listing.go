package entity

import (
	"time"

	"github.com/google/uuid"
)

// Listing is the property record images are attached to. Only the fields the
// image pipeline reads or writes are mapped here.
type Listing struct {
	ID              uuid.UUID
	AgentID         uuid.UUID
	Title           string
	PrimaryImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

func NewListing(agentID uuid.UUID, title string) *Listing {
	now := time.Now().UTC()
	return &Listing{
		ID:        uuid.New(),
		AgentID:   agentID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (l *Listing) IsDeleted() bool {
	return l.DeletedAt != nil
}

func (l *Listing) IsManagedBy(userID uuid.UUID) bool {
	return l.AgentID == userID
}
