package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/auth"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/httputil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.RequestIDKey))
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(middleware.RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	})
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(middleware.CORS())
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(zap.NewNop()))
	router.GET("/", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestRecovery_AfterPartialWrite(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(zap.New(core)))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	agentID := uuid.New()

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(zap.New(core)))
	router.POST("/listings/:listing_id/images", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, agentID)
		c.Status(http.StatusUnsupportedMediaType)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/listings/abc/images", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, int64(http.StatusUnsupportedMediaType), fields["status"])
	assert.Equal(t, "abc", fields["listing_id"])
	assert.Equal(t, "/listings/:listing_id/images", fields["route"])
	assert.Equal(t, agentID.String(), fields["agent_id"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	limiter := middleware.NewRateLimiter(client, config.RateLimitConfig{RequestsPerMin: 1}, zap.NewNop())
	router := gin.New()
	router.POST("/", limiter.Limit(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for range 3 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	router := gin.New()
	router.Use(middleware.NewAuthMiddleware(jwtSvc).RequireAuth())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, httputil.GetUserID(c).String())
	})

	t.Run("accepts a valid token", func(t *testing.T) {
		userID := uuid.New()
		token, _, err := jwtSvc.GenerateAccessToken(userID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
	})

	t.Run("rejects missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		token, _, err := auth.NewJWTService("other-secret", time.Hour).GenerateAccessToken(uuid.New())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
