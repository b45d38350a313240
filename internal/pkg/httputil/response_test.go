package httputil_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/apperror"
	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/httputil"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleError(t *testing.T) {
	t.Run("writes app errors with their code", func(t *testing.T) {
		c, w := newContext()
		c.Set("request_id", "req-1")

		httputil.HandleError(c, apperror.Pipeline(apperror.CodeDiskFull, "storage is full", nil))

		assert.Equal(t, http.StatusInsufficientStorage, w.Code)
		assert.JSONEq(t, `{"error":"storage is full","code":"DISK_FULL","request_id":"req-1"}`, w.Body.String())
	})

	t.Run("hides unknown errors behind a 500", func(t *testing.T) {
		c, w := newContext()

		httputil.HandleError(c, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
		assert.Len(t, c.Errors, 1)
	})
}

func TestGetUserID(t *testing.T) {
	c, _ := newContext()
	assert.Equal(t, uuid.Nil, httputil.GetUserID(c))

	c.Set("user_id", "not-a-uuid")
	assert.Equal(t, uuid.Nil, httputil.GetUserID(c))

	id := uuid.New()
	c.Set("user_id", id)
	assert.Equal(t, id, httputil.GetUserID(c))
}
