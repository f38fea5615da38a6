package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"elibrary/internal/model"
	"elibrary/internal/service"
)

// ListDocuments godoc
// @Summary List documents
// @Description Returns every document with its tags and uploader.
// @Tags documents
// @Produce json
// @Success 200 {array} model.Document
// @Failure 500 {object} errorPayload
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// CreateDocument godoc
// @Summary Create a metadata-only document
// @Description Tags are passed as repeated or comma-separated "tags" query parameters and created when missing.
// @Tags documents
// @Accept json
// @Produce json
// @Param tags query []string false "Tag names" collectionFormat(multi)
// @Param document body model.Document true "Document"
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /documents [post]
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doc model.Document
		if err := c.BodyParser(&doc); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		var raw []string
		for _, v := range c.Context().QueryArgs().PeekMulti("tags") {
			raw = append(raw, string(v))
		}

		created, err := svc.Create(c.UserContext(), &doc, splitTags(raw))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// UploadDocument godoc
// @Summary Upload a document file
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param tags formData []string false "Tag names" collectionFormat(multi)
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /documents/upload [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		var raw []string
		if form, err := c.MultipartForm(); err == nil {
			raw = form.Value["tags"]
		}

		doc, err := svc.Upload(c.UserContext(), service.UploadInput{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			TagNames:    splitTags(raw),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// SearchDocuments godoc
// @Summary Find documents by tag
// @Description Exact, case-sensitive tag name match. An unused tag yields an empty list.
// @Tags documents
// @Produce json
// @Param tag query string true "Tag name"
// @Success 200 {array} model.Document
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /documents/search [get]
func SearchDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tag := c.Query("tag")
		if tag == "" {
			return writeError(c, fiber.StatusBadRequest, "TAG_REQUIRED", "tag query parameter is required")
		}
		docs, err := svc.FindByTag(c.UserContext(), tag)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// GetDocument godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return nil
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument godoc
// @Summary Delete a document
// @Description Removes the document, its comments and tag links, then its stored file.
// @Tags documents
// @Param id path string true "Document ID"
// @Success 200
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return nil
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).Send(nil)
	}
}

// splitTags expands comma-separated values. Trimming and de-duplication happen in the service.
func splitTags(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}
