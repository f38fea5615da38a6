package handler

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"path"

	"github.com/gofiber/fiber/v2"

	"elibrary/internal/storage"
)

// ServeFile streams a stored upload. The wildcard path is the storage key.
func ServeFile(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, err := url.PathUnescape(c.Params("*"))
		if err != nil || key == "" {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
		}

		rc, info, err := store.Get(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "IO_ERROR", "failed to read file")
		}

		ct := info.ContentType
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": path.Base(key)}))
		if !info.LastModified.IsZero() {
			c.Set(fiber.HeaderLastModified, info.LastModified.UTC().Format(http.TimeFormat))
		}

		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, int(info.Size))
	}
}
