package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/handler"
	pgRepo "github.com/marcos-nsantos/property-listings-backend/internal/adapter/repository/postgres"
	"github.com/marcos-nsantos/property-listings-backend/internal/domain/entity"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/auth"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/database"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/messaging"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/observability"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/server"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/storage"
	"github.com/marcos-nsantos/property-listings-backend/internal/usecase/upload"
)

const (
	testDBUser     = "testuser"
	testDBPassword = "testpass"
	testDBName     = "testdb"
	testJWTSecret  = "test-secret-key-for-e2e-tests"
	testCategory   = "properties"
	apiBasePath    = "/api/v1"
)

type TestApp struct {
	Server      *httptest.Server
	Pool        *pgxpool.Pool
	Container   testcontainers.Container
	BaseURL     string
	StorageRoot string
	jwtSvc      *auth.JWTService
	httpClient  *http.Client
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase(testDBName),
		postgres.WithUsername(testDBUser),
		postgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(ctx, pool))

	listingRepo := pgRepo.NewListingRepo(pool)
	imageRepo := pgRepo.NewImageRepo(pool)

	jwtSvc := auth.NewJWTService(testJWTSecret, 15*time.Minute)

	storageRoot := t.TempDir()
	localStorage, err := storage.NewLocalStorage(storageRoot, "")
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	observer, err := observability.NewPrometheusObserver("listing_images", registry)
	require.NoError(t, err)

	logger, _ := zap.NewDevelopment()

	imageSvc := upload.NewService(
		listingRepo,
		imageRepo,
		localStorage,
		storage.NewImageProcessor(),
		upload.NewGatekeeper(),
		upload.Config{Category: testCategory},
		upload.WithLogger(logger),
		upload.WithObserver(observer),
		upload.WithPublisher(messaging.NopPublisher{}),
	)

	router := server.NewRouter(server.RouterConfig{
		ImageHandler:   handler.NewImageHandler(imageSvc, upload.DefaultMaxFileSize),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtSvc),
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		StaticPrefix:   "/" + testCategory,
		StaticRoot:     filepath.Join(storageRoot, testCategory),
		Logger:         logger,
		Environment:    "test",
	})

	ts := httptest.NewServer(router.Engine())

	return &TestApp{
		Server:      ts,
		Pool:        pool,
		Container:   pgContainer,
		BaseURL:     ts.URL,
		StorageRoot: storageRoot,
		jwtSvc:      jwtSvc,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (app *TestApp) cleanup(t *testing.T) {
	t.Helper()

	app.Server.Close()
	app.Pool.Close()

	ctx := context.Background()
	if err := app.Container.Terminate(ctx); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// createListing seeds a listing owned by a fresh agent and returns it with a
// token for that agent.
func (app *TestApp) createListing(t *testing.T) (*entity.Listing, string) {
	t.Helper()

	listing := entity.NewListing(uuid.New(), "Sunny two bedroom flat")
	require.NoError(t, pgRepo.NewListingRepo(app.Pool).Create(context.Background(), listing))

	return listing, app.tokenFor(t, listing.AgentID)
}

func (app *TestApp) tokenFor(t *testing.T, agentID uuid.UUID) string {
	t.Helper()

	token, _, err := app.jwtSvc.GenerateAccessToken(agentID)
	require.NoError(t, err)
	return token
}

func (app *TestApp) request(method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, app.BaseURL+apiBasePath+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.httpClient.Do(req)
}

func (app *TestApp) get(path string, headers map[string]string) (*http.Response, error) {
	return app.request(http.MethodGet, path, nil, headers)
}

func (app *TestApp) patch(path string, body any, headers map[string]string) (*http.Response, error) {
	return app.request(http.MethodPatch, path, body, headers)
}

func (app *TestApp) delete(path string, headers map[string]string) (*http.Response, error) {
	return app.request(http.MethodDelete, path, nil, headers)
}

func (app *TestApp) uploadImage(path, fileName, contentType string, data []byte, fields map[string]string, headers map[string]string) (*http.Response, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, app.BaseURL+apiBasePath+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.httpClient.Do(req)
}

func parseResponse(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if dest != nil {
		err = json.Unmarshal(body, dest)
		require.NoError(t, err, "response body: %s", string(body))
	}
}

func authHeader(token string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
	}
}

func jpegImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y += 8 {
		for x := 0; x < width; x += 8 {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}
