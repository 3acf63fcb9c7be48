package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/addojo/api/internal/render"
	"github.com/addojo/api/internal/service"
	"github.com/addojo/api/pkg/response"
)

type RenderHandler struct {
	service   *service.EditorService
	validator *validator.Validate
}

func NewRenderHandler(svc *service.EditorService, v *validator.Validate) *RenderHandler {
	return &RenderHandler{
		service:   svc,
		validator: v,
	}
}

// Submit handles POST /api/editor/sessions/:sessionId/render
func (h *RenderHandler) Submit(c *fiber.Ctx) error {
	result, err := h.service.SubmitRender(c.Context(), c.Params("sessionId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return response.NotFound(c, "Session not found")
		case errors.Is(err, render.ErrAlreadyInProgress):
			return response.Conflict(c, response.CodeRenderInProgress, "A render is already in progress")
		default:
			// Backend rejection: the coordinator is in Error and the
			// outcome is in history.
			return response.Error(c, fiber.StatusBadGateway, response.CodeRenderFailed, err.Error(), nil)
		}
	}
	return response.Accepted(c, result)
}

// Status handles GET /api/editor/sessions/:sessionId/render/status
func (h *RenderHandler) Status(c *fiber.Ctx) error {
	result, err := h.service.RenderStatus(c.Params("sessionId"))
	if err != nil {
		return response.NotFound(c, "Session not found")
	}
	return response.OK(c, result)
}

// History handles GET /api/editor/sessions/:sessionId/render/history
func (h *RenderHandler) History(c *fiber.Ctx) error {
	result, err := h.service.RenderHistory(c.Params("sessionId"))
	if err != nil {
		return response.NotFound(c, "Session not found")
	}
	return response.OK(c, result)
}
