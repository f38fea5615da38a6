package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"elibrary/internal/logger"
	"elibrary/internal/model"
	repoMocks "elibrary/internal/repository/mocks"
	"elibrary/internal/service"
	serviceMocks "elibrary/internal/service/mocks"
	"elibrary/internal/storage"
)

func TestUploadedFileURLServesContent(t *testing.T) {
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	mRepo := new(repoMocks.MockDocumentRepository)
	saved := &model.Document{}
	mRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { *saved = *args.Get(1).(*model.Document) }).
		Return(saved, nil)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, Routes{
		APIPrefix:    "/api",
		PublicPrefix: "/uploads",
		Store:        store,
		Documents:    service.NewDocumentService(logger.Discard(), store, mRepo, new(repoMocks.MockTagRepository), "/uploads"),
		Comments:     new(serviceMocks.MockCommentService),
		Tags:         new(serviceMocks.MockTagService),
		Users:        new(serviceMocks.MockUserService),
	})

	for _, filename := range []string{"report.pdf", "100%.pdf", "a#b.pdf", "q?x.pdf", "my report.pdf"} {
		t.Run(filename, func(t *testing.T) {
			content := "content of " + filename
			body, ct := multipartUpload(t, filename, content, map[string][]string{"title": {filename}})

			req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
			req.Header.Set("Content-Type", ct)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			var doc model.Document
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
			require.NotNil(t, doc.FileURL)
			assert.True(t, strings.HasPrefix(*doc.FileURL, "/uploads/"), *doc.FileURL)

			resp, err = app.Test(httptest.NewRequest(http.MethodGet, *doc.FileURL, nil))
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			got, _ := io.ReadAll(resp.Body)
			assert.Equal(t, content, string(got))
		})
	}
}
