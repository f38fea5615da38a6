package handler

import (
	"github.com/gofiber/fiber/v2"

	"elibrary/internal/model"
	"elibrary/internal/service"
)

// ListComments godoc
// @Summary List a document's comments
// @Tags comments
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {array} model.Comment
// @Failure 400 {object} errorPayload
// @Router /documents/{id}/comments [get]
func ListComments(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return nil
		}
		items, err := svc.ListForDocument(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// AddComment godoc
// @Summary Comment on a document
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param comment body model.Comment true "Comment"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/comments [post]
func AddComment(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return nil
		}
		var in model.Comment
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		created, err := svc.Add(c.UserContext(), id, &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}
