package upload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/apperror"
)

const (
	DefaultMaxFileSize = 20 << 20
	DefaultMinFileSize = 64
)

var DefaultAllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

// Validator performs the admission checks that run before any byte of the
// upload is processed.
type Validator struct {
	allowed map[string]struct{}
	maxSize int64
	minSize int64
}

func NewValidator(allowedTypes []string, minSize, maxSize int64) *Validator {
	if len(allowedTypes) == 0 {
		allowedTypes = DefaultAllowedTypes
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if minSize <= 0 {
		minSize = DefaultMinFileSize
	}
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		if mt := normalizeMediaType(t); mt != "" {
			allowed[mt] = struct{}{}
		}
	}
	return &Validator{allowed: allowed, maxSize: maxSize, minSize: minSize}
}

func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// Validate checks the declared media type and size.
func (v *Validator) Validate(mimeType string, declaredSize int64) error {
	mt := normalizeMediaType(mimeType)
	if _, ok := v.allowed[mt]; !ok {
		return apperror.Pipeline(apperror.CodeUnsupportedType,
			fmt.Sprintf("content type %q is not allowed", mimeType), nil)
	}
	if declaredSize > v.maxSize {
		return apperror.Pipeline(apperror.CodeFileTooLarge,
			fmt.Sprintf("file exceeds the %d byte limit", v.maxSize), nil)
	}
	if declaredSize < v.minSize {
		return apperror.Pipeline(apperror.CodeFileTooSmall,
			fmt.Sprintf("file is smaller than %d bytes", v.minSize), nil)
	}
	return nil
}

// CheckStream verifies r can still produce data without losing any byte:
// the returned reader must be used in place of r.
func (v *Validator) CheckStream(r io.Reader) (io.Reader, error) {
	if r == nil {
		return nil, apperror.Pipeline(apperror.CodeStreamInvalid, "upload stream is missing", nil)
	}
	br := bufio.NewReader(r)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperror.Pipeline(apperror.CodeStreamInvalid, "upload stream is empty or already consumed", err)
		}
		return nil, apperror.Pipeline(apperror.CodeStreamInvalid, "upload stream is not readable", err)
	}
	return br, nil
}

func normalizeMediaType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	return mt
}
