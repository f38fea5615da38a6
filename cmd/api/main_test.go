package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"elibrary/internal/config"
	handlers "elibrary/internal/http/handler"
	"elibrary/internal/http/middleware"
	"elibrary/internal/logger"
	"elibrary/internal/model"
	serviceMocks "elibrary/internal/service/mocks"
)

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.NotNil(t, root.RunE)
	assert.NotNil(t, root.Flags().Lookup("skip-migrate"))
}

func TestNewApp(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	docSvc := new(serviceMocks.MockDocumentService)
	reg := prometheus.NewRegistry()
	cfg := &config.AppConfig{APIPrefix: "/api", BodyLimitMB: 1}

	app, err := newApp(cfg, logger.Discard(), reg, handlers.Routes{
		APIPrefix: cfg.APIPrefix,
		DB:        db,
		Gatherer:  reg,
		Documents: docSvc,
		Comments:  new(serviceMocks.MockCommentService),
		Tags:      new(serviceMocks.MockTagService),
		Users:     new(serviceMocks.MockUserService),
	})
	require.NoError(t, err)

	t.Run("health", func(t *testing.T) {
		dbMock.ExpectPing()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	})

	t.Run("api routes under prefix", func(t *testing.T) {
		docSvc.On("List", mock.Anything).Return([]model.Document{}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/documents", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		docSvc.AssertExpectations(t)
	})

	t.Run("metrics count requests", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.NoError(t, err)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "http_requests_total")
	})

	t.Run("body limit", func(t *testing.T) {
		big := make([]byte, 2*1024*1024)
		req := httptest.NewRequest(http.MethodPost, "/api/tags", bytes.NewReader(big))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	})
}

func TestNewApp_MetricsRegisteredOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := &config.AppConfig{APIPrefix: "/api", BodyLimitMB: 1}

	_, err := newApp(cfg, logger.Discard(), reg, handlers.Routes{})
	require.NoError(t, err)

	_, err = newApp(cfg, logger.Discard(), reg, handlers.Routes{})
	assert.Error(t, err)
}
