package upload

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/property-listings-backend/internal/domain"
	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/apperror"
)

// Stage is the state of one pipeline execution.
type Stage string

const (
	StagePending      Stage = "PENDING"
	StageValidating   Stage = "VALIDATING"
	StageTransforming Stage = "TRANSFORMING"
	StageWriting      Stage = "WRITING"
	StageRecording    Stage = "RECORDING"
	StageCompleted    Stage = "COMPLETED"
	StageFailed       Stage = "FAILED"
)

func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// Attempt tracks the durable state created by a single execution. Cleanup is
// scoped to the keys recorded here.
type Attempt struct {
	id        uuid.UUID
	listingID uuid.UUID

	mu         sync.Mutex
	stage      Stage
	stageStart time.Time
	keys       []string
}

func NewAttempt(listingID uuid.UUID) *Attempt {
	return &Attempt{
		id:         uuid.New(),
		listingID:  listingID,
		stage:      StagePending,
		stageStart: time.Now(),
	}
}

func (a *Attempt) ID() uuid.UUID {
	return a.id
}

func (a *Attempt) ListingID() uuid.UUID {
	return a.listingID
}

func (a *Attempt) Stage() Stage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stage
}

// advance moves to next and returns the stage left and how long it lasted.
// Terminal stages are never left.
func (a *Attempt) advance(next Stage) (Stage, time.Duration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stage.Terminal() {
		return a.stage, 0, false
	}
	prev, elapsed := a.stage, time.Since(a.stageStart)
	a.stage = next
	a.stageStart = time.Now()
	return prev, elapsed, true
}

// Track records a key that may exist in storage because of this attempt.
func (a *Attempt) Track(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, k := range a.keys {
		if k == key {
			return
		}
	}
	a.keys = append(a.keys, key)
}

func (a *Attempt) Keys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.keys...)
}

func (a *Attempt) forget(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			return
		}
	}
}

// limitedReader fails with domain.ErrImageTooLarge once more than max bytes
// have been read, instead of silently truncating like io.LimitReader.
type limitedReader struct {
	r   io.Reader
	max int64
	n   int64
}

func newLimitedReader(r io.Reader, max int64) *limitedReader {
	return &limitedReader{r: r, max: max}
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n > l.max {
		return 0, domain.ErrImageTooLarge
	}
	if room := l.max - l.n + 1; int64(len(p)) > room {
		p = p[:room]
	}
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		return n, domain.ErrImageTooLarge
	}
	return n, err
}

// classifyTransformError maps a transform failure onto a pipeline code.
func classifyTransformError(ctx context.Context, err error) *apperror.AppError {
	if timeout := classifyContextError(ctx, err); timeout != nil {
		return timeout
	}
	switch {
	case errors.Is(err, domain.ErrImageTooLarge):
		return apperror.Pipeline(apperror.CodeFileTooLarge, "image exceeds the allowed size", err)
	case errors.Is(err, domain.ErrUnsupportedImageFormat):
		return apperror.Pipeline(apperror.CodeUnsupportedFormat, "file content is not a supported image", err)
	default:
		return apperror.Pipeline(apperror.CodeStreamInvalid, "image data is truncated or corrupt", err)
	}
}

// classifyWriteError maps a storage failure onto a pipeline code.
func classifyWriteError(ctx context.Context, err error) *apperror.AppError {
	if timeout := classifyContextError(ctx, err); timeout != nil {
		return timeout
	}
	switch {
	case errors.Is(err, fs.ErrPermission),
		errors.Is(err, syscall.EACCES),
		errors.Is(err, syscall.EPERM),
		errors.Is(err, syscall.EROFS):
		return apperror.Pipeline(apperror.CodePermissionDenied, "storage location is not writable", err)
	case errors.Is(err, syscall.ENOSPC), errors.Is(err, syscall.EDQUOT):
		return apperror.Pipeline(apperror.CodeDiskFull, "storage is out of space", err)
	default:
		return apperror.Pipeline(apperror.CodeStorageWriteError, "failed to write image to storage", err)
	}
}

func classifyMetadataError(ctx context.Context, err error) *apperror.AppError {
	if timeout := classifyContextError(ctx, err); timeout != nil {
		return timeout
	}
	return apperror.Pipeline(apperror.CodeMetadataWriteFailed, "failed to record image metadata", err)
}

// classifyContextError reports the pipeline code for a ctx that ended, or nil
// when err is unrelated to ctx.
func classifyContextError(ctx context.Context, err error) *apperror.AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperror.Pipeline(apperror.CodeProcessingTimeout, "image processing timed out", err)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return apperror.Pipeline(apperror.CodeStreamInvalid, "upload aborted", err)
	}
	return nil
}
