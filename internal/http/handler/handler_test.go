package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"elibrary/internal/model"
	"elibrary/internal/service"
	serviceMocks "elibrary/internal/service/mocks"
	"elibrary/internal/storage"
	storeMocks "elibrary/internal/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantBody string
	}{
		{err: service.ErrNotFound, wantCode: http.StatusNotFound, wantBody: "NOT_FOUND"},
		{err: service.ErrIDRequired, wantCode: http.StatusBadRequest, wantBody: "INVALID_INPUT"},
		{err: service.ErrConflict, wantCode: http.StatusConflict, wantBody: "CONFLICT"},
		{err: service.ErrIO, wantCode: http.StatusInternalServerError, wantBody: "IO_ERROR"},
		{err: service.ErrStorage, wantCode: http.StatusInternalServerError, wantBody: "STORAGE_ERROR"},
		{err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantBody: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantBody, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeServiceError(c, tt.err) })

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			res := decodeError(t, resp)
			assert.Equal(t, tt.wantBody, res.Error.Code)
			assert.NotEmpty(t, res.Error.Message)
		})
	}
}

func TestServeFile(t *testing.T) {
	mStore := new(storeMocks.MockStorage)
	app := fiber.New()
	app.Get("/uploads/*", ServeFile(mStore))

	t.Run("streams stored content", func(t *testing.T) {
		mStore.On("Get", mock.Anything, "abc/my report.pdf").
			Return(io.NopCloser(strings.NewReader("%PDF-1.4")), storage.ObjectInfo{
				Size:         8,
				ContentType:  "application/pdf",
				LastModified: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/abc/my%20report.pdf", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "my report.pdf")
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.4", string(body))
		mStore.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		mStore.On("Get", mock.Anything, "abc/gone.pdf").
			Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/abc/gone.pdf", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("read failure", func(t *testing.T) {
		mStore.On("Get", mock.Anything, "abc/broken.pdf").
			Return(nil, storage.ObjectInfo{}, errors.New("disk error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/abc/broken.pdf", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func newTestApp(docSvc *serviceMocks.MockDocumentService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	RegisterRoutes(app, Routes{
		APIPrefix:    "/api",
		PublicPrefix: "/uploads",
		Store:        new(storeMocks.MockStorage),
		Gatherer:     prometheus.NewRegistry(),
		Documents:    docSvc,
		Comments:     new(serviceMocks.MockCommentService),
		Tags:         new(serviceMocks.MockTagService),
		Users:        new(serviceMocks.MockUserService),
	})
	return app
}

func TestRouting(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp(mockSvc)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("unprefixed api path is not served", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("search is not taken for a document id", func(t *testing.T) {
		mockSvc.On("FindByTag", mock.Anything, "finance").Return([]model.Document{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/documents/search?tag=finance", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("document id must be a uuid", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/documents/"+uuid.NewString()[:8], nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}
