package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"elibrary/internal/model"
	"elibrary/internal/service"
)

// ListTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} model.Tag
// @Router /tags [get]
func ListTags(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tags)
	}
}

// CreateTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param tag body model.Tag true "Tag"
// @Success 201 {object} model.Tag
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /tags [post]
func CreateTag(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.Tag
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		tag, err := svc.Create(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(tag)
	}
}

// GetTagByName godoc
// @Summary Get a tag by name
// @Tags tags
// @Produce json
// @Param name path string true "Tag name"
// @Success 200 {object} model.Tag
// @Failure 404 {object} errorPayload
// @Router /tags/{name} [get]
func GetTagByName(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid tag name")
		}
		tag, err := svc.GetByName(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tag)
	}
}
