package messaging

import (
	"context"

	"github.com/marcos-nsantos/property-listings-backend/internal/domain/entity"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/messaging_mocks.go -package=mocks

type EventPublisher interface {
	PublishImageEvent(ctx context.Context, event entity.ImageEvent) error
}
