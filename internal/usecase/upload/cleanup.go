package upload

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/storage"
)

const cleanupTimeout = 10 * time.Second

// detachedContext keeps the values of ctx but drops its deadline and
// cancellation, bounded by cleanupTimeout instead.
func detachedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
}

// Compensator removes the files written by a failed attempt.
type Compensator struct {
	storage  storage.ImageStorage
	logger   *zap.Logger
	observer Observer
}

func NewCompensator(imageStorage storage.ImageStorage, logger *zap.Logger, observer Observer) *Compensator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Compensator{storage: imageStorage, logger: logger, observer: observer}
}

// Cleanup deletes every key tracked by a. Failures are logged and the key
// stays tracked, so calling Cleanup again retries it.
func (c *Compensator) Cleanup(ctx context.Context, a *Attempt) {
	if a == nil {
		return
	}
	keys := a.Keys()
	if len(keys) == 0 {
		return
	}

	ctx, cancel := detachedContext(ctx)
	defer cancel()

	failed := 0
	for _, key := range keys {
		if err := c.storage.Delete(ctx, key); err != nil {
			failed++
			c.logger.Warn("cleanup failed to delete file",
				zap.String("attempt_id", a.ID().String()),
				zap.String("listing_id", a.ListingID().String()),
				zap.String("key", key),
				zap.Error(err),
			)
			continue
		}
		a.forget(key)
	}

	c.observer.RecordCleanup(len(keys), failed)
	c.logger.Debug("cleanup finished",
		zap.String("attempt_id", a.ID().String()),
		zap.Int("keys", len(keys)),
		zap.Int("failed", failed),
	)
}
