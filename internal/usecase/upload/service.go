package upload

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/messaging"
	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/storage"
	"github.com/marcos-nsantos/property-listings-backend/internal/domain"
	"github.com/marcos-nsantos/property-listings-backend/internal/domain/entity"
	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/apperror"
)

const DefaultProcessingTimeout = 60 * time.Second

type Config struct {
	AllowedTypes      []string
	MaxFileSize       int64
	MinFileSize       int64
	ProcessingTimeout time.Duration
	// MaxConcurrent caps executions across all listings. Zero means no cap.
	MaxConcurrent int64
	Category      string
	Transform     storage.TransformOptions
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithPublisher(publisher messaging.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithObserver(observer Observer) Option {
	return func(s *Service) {
		if observer != nil {
			s.observer = observer
		}
	}
}

type Service struct {
	listings   repository.ListingRepository
	images     repository.ImageRepository
	storage    storage.ImageStorage
	processor  storage.ImageProcessor
	gatekeeper *Gatekeeper

	validator   *Validator
	writer      *assetWriter
	recorder    *recorder
	compensator *Compensator

	sem       *semaphore.Weighted
	timeout   time.Duration
	transform storage.TransformOptions

	logger    *zap.Logger
	publisher messaging.EventPublisher
	observer  Observer
}

func NewService(
	listingRepo repository.ListingRepository,
	imageRepo repository.ImageRepository,
	imageStorage storage.ImageStorage,
	imageProcessor storage.ImageProcessor,
	gatekeeper *Gatekeeper,
	cfg Config,
	opts ...Option,
) *Service {
	if gatekeeper == nil {
		gatekeeper = NewGatekeeper()
	}
	if cfg.ProcessingTimeout <= 0 {
		cfg.ProcessingTimeout = DefaultProcessingTimeout
	}
	if cfg.Category == "" {
		cfg.Category = "properties"
	}
	if cfg.Transform == (storage.TransformOptions{}) {
		cfg.Transform = storage.DefaultTransformOptions()
	}

	s := &Service{
		listings:   listingRepo,
		images:     imageRepo,
		storage:    imageStorage,
		processor:  imageProcessor,
		gatekeeper: gatekeeper,
		validator:  NewValidator(cfg.AllowedTypes, cfg.MinFileSize, cfg.MaxFileSize),
		timeout:    cfg.ProcessingTimeout,
		transform:  cfg.Transform,
		logger:     zap.NewNop(),
		observer:   nopObserver{},
	}
	if cfg.MaxConcurrent > 0 {
		s.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.writer = &assetWriter{storage: imageStorage, category: cfg.Category, logger: s.logger}
	s.recorder = &recorder{listings: listingRepo, images: imageRepo, logger: s.logger}
	s.compensator = NewCompensator(imageStorage, s.logger, s.observer)
	return s
}

type UploadInput struct {
	UserID      uuid.UUID
	ListingID   uuid.UUID
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
	AltText     string
	Order       *int
}

// Upload runs one pipeline execution for input.ListingID. Executions for the
// same listing never overlap. Every failure is an *apperror.AppError carrying
// one of the pipeline codes, except for lookup and ownership failures, and
// storage is already consistent when it is returned.
func (s *Service) Upload(ctx context.Context, input UploadInput) (*entity.ImageAsset, error) {
	if input.Order != nil && *input.Order < 0 {
		return nil, domain.ErrInvalidOrder
	}
	if _, err := s.authorizeListing(ctx, input.UserID, input.ListingID); err != nil {
		return nil, err
	}

	token, err := s.gatekeeper.Acquire(ctx, input.ListingID)
	if err != nil {
		return nil, classifyContextError(ctx, err)
	}
	defer func() {
		token.Release()
		s.observer.RecordInFlight(s.gatekeeper.InFlight())
	}()
	s.observer.RecordInFlight(s.gatekeeper.InFlight())

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if closer, ok := input.File.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = closer.Close() })
		defer stop()
	}

	a := NewAttempt(input.ListingID)
	logger := s.logger.With(
		zap.String("attempt_id", a.ID().String()),
		zap.String("listing_id", input.ListingID.String()),
		zap.String("filename", input.Filename),
	)
	start := time.Now()

	asset, err := s.run(ctx, a, input)
	if err != nil {
		s.transition(a, StageFailed)
		s.compensator.Cleanup(ctx, a)
		code := apperror.Code(err)
		s.observer.RecordUpload(time.Since(start), 0, code)
		logger.Warn("image upload failed", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	s.transition(a, StageCompleted)
	s.observer.RecordUpload(time.Since(start), asset.SizeBytes, "")
	logger.Info("image uploaded",
		zap.String("image_id", asset.ID.String()),
		zap.Int("order", asset.Order),
		zap.Duration("duration", time.Since(start)),
	)
	s.publish(ctx, entity.ImageCreated, asset)
	return asset, nil
}

func (s *Service) run(ctx context.Context, a *Attempt, input UploadInput) (*entity.ImageAsset, error) {
	s.transition(a, StageValidating)
	if err := s.validator.Validate(input.ContentType, input.Size); err != nil {
		return nil, err
	}
	stream, err := s.validator.CheckStream(input.File)
	if err != nil {
		return nil, err
	}

	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, classifyContextError(ctx, err)
		}
		defer s.sem.Release(1)
	}

	s.transition(a, StageTransforming)
	result, err := s.processor.Transform(ctx, newLimitedReader(stream, s.validator.MaxSize()), s.transform)
	if err != nil {
		return nil, classifyTransformError(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, classifyContextError(ctx, err)
	}

	s.transition(a, StageWriting)
	written, err := s.writer.write(ctx, a, result)
	if err != nil {
		return nil, err
	}

	s.transition(a, StageRecording)
	return s.recorder.record(ctx, a, written, result, input)
}

func (s *Service) transition(a *Attempt, next Stage) {
	prev, elapsed, ok := a.advance(next)
	if !ok {
		return
	}
	if prev != StagePending {
		s.observer.RecordStage(string(prev), elapsed)
	}
	s.logger.Debug("pipeline stage",
		zap.String("attempt_id", a.ID().String()),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
		zap.Duration("elapsed", elapsed),
	)
}

func (s *Service) List(ctx context.Context, listingID uuid.UUID) ([]entity.ImageAsset, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.IsDeleted() {
		return nil, domain.ErrListingNotFound
	}

	assets, err := s.images.ListByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	entity.SortImageAssets(assets)
	return assets, nil
}

type UpdateInput struct {
	UserID  uuid.UUID
	ImageID uuid.UUID
	AltText *string
	Order   *int
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*entity.ImageAsset, error) {
	if input.Order != nil && *input.Order < 0 {
		return nil, domain.ErrInvalidOrder
	}

	asset, err := s.images.GetByID(ctx, input.ImageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeListing(ctx, input.UserID, asset.ListingID); err != nil {
		return nil, err
	}

	token, err := s.gatekeeper.Acquire(ctx, asset.ListingID)
	if err != nil {
		return nil, err
	}
	defer token.Release()

	// Reload under the slot; a concurrent delete may have won.
	asset, err = s.images.GetByID(ctx, input.ImageID)
	if err != nil {
		return nil, err
	}

	if input.AltText != nil {
		asset.AltText = *input.AltText
	}
	reordered := input.Order != nil && *input.Order != asset.Order
	if input.Order != nil {
		asset.Order = *input.Order
	}

	if err := s.images.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("updating image: %w", err)
	}

	if reordered {
		if err := s.syncPrimaryImage(ctx, asset.ListingID, ""); err != nil {
			return nil, err
		}
	}

	return asset, nil
}

// Delete removes the image record and its files. If it was the listing's
// primary image, the next image in order takes its place.
func (s *Service) Delete(ctx context.Context, userID, imageID uuid.UUID) error {
	asset, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if _, err := s.authorizeListing(ctx, userID, asset.ListingID); err != nil {
		return err
	}

	token, err := s.gatekeeper.Acquire(ctx, asset.ListingID)
	if err != nil {
		return err
	}
	defer token.Release()

	if err := s.images.Delete(ctx, imageID); err != nil {
		return fmt.Errorf("deleting image record: %w", err)
	}

	for _, key := range asset.Keys() {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("deleting from storage: %w", err)
		}
	}

	if err := s.syncPrimaryImage(ctx, asset.ListingID, asset.URL); err != nil {
		return err
	}

	s.publish(ctx, entity.ImageDeleted, asset)
	return nil
}

// syncPrimaryImage points the listing at its first image by order, or clears
// the reference when no image is left. With a non-empty removedURL it only
// acts when that URL was the primary image.
func (s *Service) syncPrimaryImage(ctx context.Context, listingID uuid.UUID, removedURL string) error {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if removedURL != "" && listing.PrimaryImageURL != removedURL {
		return nil
	}
	assets, err := s.images.ListByListingID(ctx, listingID)
	if err != nil {
		return fmt.Errorf("listing images: %w", err)
	}
	entity.SortImageAssets(assets)

	primary := ""
	if len(assets) > 0 {
		primary = assets[0].URL
	}
	if primary == listing.PrimaryImageURL {
		return nil
	}
	if err := s.listings.UpdatePrimaryImage(ctx, listingID, primary); err != nil {
		return fmt.Errorf("updating primary image: %w", err)
	}
	return nil
}

func (s *Service) authorizeListing(ctx context.Context, userID, listingID uuid.UUID) (*entity.Listing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.IsDeleted() {
		return nil, domain.ErrListingNotFound
	}
	if !listing.IsManagedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return listing, nil
}

func (s *Service) publish(ctx context.Context, eventType entity.ImageEventType, asset *entity.ImageAsset) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := detachedContext(ctx)
	defer cancel()
	if err := s.publisher.PublishImageEvent(ctx, entity.NewImageEvent(eventType, asset)); err != nil {
		s.logger.Warn("failed to publish image event",
			zap.String("type", string(eventType)),
			zap.String("image_id", asset.ID.String()),
			zap.Error(err),
		)
	}
}
