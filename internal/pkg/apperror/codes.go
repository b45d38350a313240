package apperror

import "net/http"

// Upload pipeline error codes.
const (
	CodeUnsupportedType     = "UNSUPPORTED_TYPE"
	CodeFileTooLarge        = "FILE_TOO_LARGE"
	CodeFileTooSmall        = "FILE_TOO_SMALL"
	CodeStreamInvalid       = "STREAM_INVALID"
	CodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	CodeProcessingTimeout   = "PROCESSING_TIMEOUT"
	CodeStorageWriteError   = "STORAGE_WRITE_ERROR"
	CodeDiskFull            = "DISK_FULL"
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodeMetadataWriteFailed = "METADATA_WRITE_FAILED"
)

var pipelineStatus = map[string]int{
	CodeUnsupportedType:     http.StatusUnsupportedMediaType,
	CodeFileTooLarge:        http.StatusRequestEntityTooLarge,
	CodeFileTooSmall:        http.StatusBadRequest,
	CodeStreamInvalid:       http.StatusBadRequest,
	CodeUnsupportedFormat:   http.StatusUnsupportedMediaType,
	CodeProcessingTimeout:   http.StatusRequestTimeout,
	CodeStorageWriteError:   http.StatusInternalServerError,
	CodeDiskFull:            http.StatusInsufficientStorage,
	CodePermissionDenied:    http.StatusInternalServerError,
	CodeMetadataWriteFailed: http.StatusInternalServerError,
}

// Pipeline builds an AppError for one of the upload pipeline codes.
func Pipeline(code, message string, err error) *AppError {
	status, ok := pipelineStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: status,
		Err:        err,
	}
}

// Code returns the AppError code carried by err, or "" when err is not an AppError.
func Code(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
