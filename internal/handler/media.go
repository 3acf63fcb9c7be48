package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/addojo/api/internal/service"
	"github.com/addojo/api/pkg/response"
)

type MediaHandler struct {
	service *service.MediaService
}

func NewMediaHandler(svc *service.MediaService) *MediaHandler {
	return &MediaHandler{service: svc}
}

// Videos handles GET /api/media/videos?query=
func (h *MediaHandler) Videos(c *fiber.Ctx) error {
	result, err := h.service.SearchVideos(c.Context(), c.Query("query"))
	if err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, result)
}

// Sounds handles GET /api/media/sounds
func (h *MediaHandler) Sounds(c *fiber.Ctx) error {
	result, err := h.service.ListSounds(c.Context())
	if err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, result)
}
