package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/addojo/api/internal/model"
	"github.com/addojo/api/internal/service"
	"github.com/addojo/api/internal/timeline"
	"github.com/addojo/api/pkg/response"
)

type EditorHandler struct {
	service   *service.EditorService
	validator *validator.Validate
}

func NewEditorHandler(svc *service.EditorService, v *validator.Validate) *EditorHandler {
	return &EditorHandler{
		service:   svc,
		validator: v,
	}
}

// CreateSession handles POST /api/editor/sessions
func (h *EditorHandler) CreateSession(c *fiber.Ctx) error {
	var req model.CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.ValidationError(c, "Invalid request body", nil)
		}
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	return response.Created(c, h.service.CreateSession(req.AspectRatio))
}

// GetState handles GET /api/editor/sessions/:sessionId
func (h *EditorHandler) GetState(c *fiber.Ctx) error {
	result, err := h.service.State(c.Params("sessionId"))
	if err != nil {
		return editorError(c, err)
	}
	return response.OK(c, result)
}

// CloseSession handles DELETE /api/editor/sessions/:sessionId
func (h *EditorHandler) CloseSession(c *fiber.Ctx) error {
	if err := h.service.CloseSession(c.Params("sessionId")); err != nil {
		return editorError(c, err)
	}
	return response.NoContent(c)
}

// AddOverlay handles POST /api/editor/sessions/:sessionId/overlays
func (h *EditorHandler) AddOverlay(c *fiber.Ctx) error {
	var req model.AddOverlayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}
	if (req.Row == nil) != (req.From == nil) {
		return response.ValidationError(c, "row and from must be provided together", nil)
	}

	overlay, err := h.service.AddOverlay(c.Params("sessionId"), &req)
	if err != nil {
		return editorError(c, err)
	}
	return response.Created(c, overlay)
}

// ChangeOverlay handles PATCH /api/editor/sessions/:sessionId/overlays/:overlayId
func (h *EditorHandler) ChangeOverlay(c *fiber.Ctx) error {
	overlayID, err := overlayIDParam(c)
	if err != nil {
		return response.ValidationError(c, "Invalid overlay id", nil)
	}

	var patch model.OverlayPatch
	if err := c.BodyParser(&patch); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&patch); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	overlay, err := h.service.ChangeOverlay(c.Params("sessionId"), overlayID, &patch)
	if err != nil {
		return editorError(c, err)
	}
	return response.OK(c, overlay)
}

// DeleteOverlay handles DELETE /api/editor/sessions/:sessionId/overlays/:overlayId
func (h *EditorHandler) DeleteOverlay(c *fiber.Ctx) error {
	overlayID, err := overlayIDParam(c)
	if err != nil {
		return response.ValidationError(c, "Invalid overlay id", nil)
	}

	if err := h.service.DeleteOverlay(c.Params("sessionId"), overlayID); err != nil {
		return editorError(c, err)
	}
	return response.NoContent(c)
}

// DuplicateOverlay handles POST /api/editor/sessions/:sessionId/overlays/:overlayId/duplicate
func (h *EditorHandler) DuplicateOverlay(c *fiber.Ctx) error {
	overlayID, err := overlayIDParam(c)
	if err != nil {
		return response.ValidationError(c, "Invalid overlay id", nil)
	}

	overlay, err := h.service.DuplicateOverlay(c.Params("sessionId"), overlayID)
	if err != nil {
		return editorError(c, err)
	}
	return response.Created(c, overlay)
}

// SplitOverlay handles POST /api/editor/sessions/:sessionId/overlays/:overlayId/split
func (h *EditorHandler) SplitOverlay(c *fiber.Ctx) error {
	overlayID, err := overlayIDParam(c)
	if err != nil {
		return response.ValidationError(c, "Invalid overlay id", nil)
	}

	var req model.SplitOverlayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	first, second, err := h.service.SplitOverlay(c.Params("sessionId"), overlayID, req.Frame)
	if err != nil {
		return editorError(c, err)
	}
	return response.OK(c, fiber.Map{"first": first, "second": second})
}

// SetSelection handles PUT /api/editor/sessions/:sessionId/selection
func (h *EditorHandler) SetSelection(c *fiber.Ctx) error {
	var req model.SelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.service.SetSelection(c.Params("sessionId"), req.OverlayID); err != nil {
		return editorError(c, err)
	}
	return response.NoContent(c)
}

// TogglePlayback handles POST /api/editor/sessions/:sessionId/playback/toggle
func (h *EditorHandler) TogglePlayback(c *fiber.Ctx) error {
	result, err := h.service.TogglePlayPause(c.Params("sessionId"))
	if err != nil {
		return editorError(c, err)
	}
	return response.OK(c, result)
}

// Seek handles POST /api/editor/sessions/:sessionId/playback/seek
func (h *EditorHandler) Seek(c *fiber.Ctx) error {
	var req model.SeekRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Seek(c.Params("sessionId"), req.Frame)
	if err != nil {
		return editorError(c, err)
	}
	return response.OK(c, result)
}

func overlayIDParam(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("overlayId"), 10, 64)
}

// editorError maps domain errors to HTTP responses.
func editorError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return response.NotFound(c, "Session not found")
	case errors.Is(err, timeline.ErrUnknownOverlay):
		return response.NotFound(c, "Overlay not found")
	case errors.Is(err, timeline.ErrOverlayCollision):
		return response.Conflict(c, response.CodeOverlayCollision, err.Error())
	case errors.Is(err, timeline.ErrInvalidSplitPoint):
		return response.UnprocessableEntity(c, response.CodeInvalidSplitPoint, err.Error())
	case errors.Is(err, timeline.ErrInvalidOverlay):
		return response.ValidationError(c, err.Error(), nil)
	default:
		return response.ServiceError(c, err.Error())
	}
}
