package domain

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrForbidden       = errors.New("forbidden")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrInvalidOrder    = errors.New("order must be non-negative")

	// Image payload errors reported by the transform stage.
	ErrUnsupportedImageFormat = errors.New("unsupported image format")
	ErrCorruptImage           = errors.New("corrupt or truncated image")
	ErrImageTooLarge          = errors.New("image too large")
)
