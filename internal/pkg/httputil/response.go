package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/apperror"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func ErrorWithCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: GetRequestID(c),
	})
}

func ValidationError(c *gin.Context, err error) {
	HandleError(c, apperror.Validation(err.Error(), err))
}

func InternalError(c *gin.Context) {
	HandleError(c, apperror.Internal(nil))
}

// HandleError writes err as an ErrorResponse. Errors that are not an
// AppError become a 500 and are attached to the context for the request
// logger.
func HandleError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !apperror.As(err, &appErr) {
		_ = c.Error(err)
		appErr = apperror.Internal(err)
	}
	ErrorWithCode(c, appErr.StatusCode, appErr.Code, appErr.Message)
}

func GetUserID(c *gin.Context) uuid.UUID {
	if id, ok := c.Get("user_id"); ok {
		if userID, ok := id.(uuid.UUID); ok {
			return userID
		}
	}
	return uuid.Nil
}

func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
