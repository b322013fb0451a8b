package handler

import (
	"dailydose/internal/domain"
	"dailydose/internal/dto"
	"dailydose/internal/service"
	"dailydose/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// DailyDoseHandler handles the learner-facing API: the Learning Pathway
// dashboard and the session player.
type DailyDoseHandler struct {
	pathwayService service.PathwayService
	sessionService service.SessionService
}

// NewDailyDoseHandler creates a new DailyDoseHandler instance
func NewDailyDoseHandler(pathwayService service.PathwayService, sessionService service.SessionService) *DailyDoseHandler {
	return &DailyDoseHandler{
		pathwayService: pathwayService,
		sessionService: sessionService,
	}
}

// GetPathway handles GET /api/daily-dose/pathway
func (h *DailyDoseHandler) GetPathway(c *fiber.Ctx) error {
	resp, err := h.pathwayService.GetPathway(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// StartSession handles POST /api/daily-dose/sessions
func (h *DailyDoseHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.sessionService.StartSession(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession handles GET /api/daily-dose/sessions/:id
func (h *DailyDoseHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.sessionService.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// AnswerStep handles POST /api/daily-dose/sessions/:id/answers
func (h *DailyDoseHandler) AnswerStep(c *fiber.Ctx) error {
	var req dto.AnswerStepRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.sessionService.AnswerStep(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Seek handles POST /api/daily-dose/sessions/:id/seek
func (h *DailyDoseHandler) Seek(c *fiber.Ctx) error {
	var req dto.SeekRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.sessionService.Seek(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitSession handles POST /api/daily-dose/sessions/:id/submit
func (h *DailyDoseHandler) SubmitSession(c *fiber.Ctx) error {
	resp, err := h.sessionService.SubmitSession(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
