package storage

import (
	"fmt"

	adapter "github.com/marcos-nsantos/property-listings-backend/internal/adapter/storage"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/config"
)

// NewImageStorage builds the backend selected by cfg.Driver.
func NewImageStorage(cfg config.StorageConfig, s3cfg config.S3Config) (adapter.ImageStorage, error) {
	switch cfg.Driver {
	case config.StorageDriverLocal:
		return NewLocalStorage(cfg.RootPath, cfg.BaseURL)
	case config.StorageDriverS3:
		return NewS3Storage(s3cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
