package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/service"
)

// MediaHandler proxies stock media searches.
type MediaHandler struct {
	media *service.MediaService
}

// NewMediaHandler builds the handler.
func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Search relays the upstream JSON unchanged.
func (h *MediaHandler) Search(c *fiber.Ctx) error {
	body, err := h.media.Search(c.UserContext(), c.Query("q"), c.Query("type", "photo"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
