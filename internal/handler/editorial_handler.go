package handler

import (
	"dailydose/internal/domain"
	"dailydose/internal/dto"
	"dailydose/internal/logger"
	"dailydose/internal/service"
	"dailydose/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EditorialHandler handles the authoring API: cards, the approval workflow,
// generation batches and the settings screens.
type EditorialHandler struct {
	cardService     service.CardService
	batchService    service.BatchService
	settingsService service.SettingsService
	pathwayService  service.PathwayService
}

// NewEditorialHandler creates a new EditorialHandler instance
func NewEditorialHandler(
	cardService service.CardService,
	batchService service.BatchService,
	settingsService service.SettingsService,
	pathwayService service.PathwayService,
) *EditorialHandler {
	return &EditorialHandler{
		cardService:     cardService,
		batchService:    batchService,
		settingsService: settingsService,
		pathwayService:  pathwayService,
	}
}

// CreateCard handles POST /api/editorial/cards
func (h *EditorialHandler) CreateCard(c *fiber.Ctx) error {
	var req dto.CreateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.cardService.CreateCard(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetCard handles GET /api/editorial/cards/:id
func (h *EditorialHandler) GetCard(c *fiber.Ctx) error {
	resp, err := h.cardService.GetCard(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListCards handles GET /api/editorial/cards
func (h *EditorialHandler) ListCards(c *fiber.Ctx) error {
	filters := domain.CardFilters{
		Status:       domain.CardStatus(c.Query("status")),
		Risk:         domain.RiskLevel(c.Query("risk")),
		SubsectionID: c.Query("subsection_id"),
		Tag:          c.Query("tag"),
	}
	resp, err := h.cardService.ListCards(c.Context(), filters,
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateCard handles PUT /api/editorial/cards/:id
func (h *EditorialHandler) UpdateCard(c *fiber.Ctx) error {
	var req dto.UpdateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.cardService.UpdateCard(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteCard handles DELETE /api/editorial/cards/:id
func (h *EditorialHandler) DeleteCard(c *fiber.Ctx) error {
	if err := h.cardService.DeleteCard(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkDeleteCards handles POST /api/editorial/cards/bulk-delete
func (h *EditorialHandler) BulkDeleteCards(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.cardService.BulkDeleteCards(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetReadiness handles GET /api/editorial/cards/:id/readiness
func (h *EditorialHandler) GetReadiness(c *fiber.Ctx) error {
	resp, err := h.cardService.GetReadiness(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ApproveCard handles POST /api/editorial/cards/:id/approve
func (h *EditorialHandler) ApproveCard(c *fiber.Ctx) error {
	resp, err := h.cardService.ApproveCard(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// PublishCard handles POST /api/editorial/cards/:id/publish. A successful
// publish changes subsection coverage, so the pathway cache is dropped.
func (h *EditorialHandler) PublishCard(c *fiber.Ctx) error {
	resp, err := h.cardService.PublishCard(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	h.invalidatePathway(c)
	return c.JSON(resp)
}

// ArchiveCard handles POST /api/editorial/cards/:id/archive
func (h *EditorialHandler) ArchiveCard(c *fiber.Ctx) error {
	resp, err := h.cardService.ArchiveCard(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	h.invalidatePathway(c)
	return c.JSON(resp)
}

// RecordClinicianApproval handles POST /api/editorial/cards/:id/clinician-approval
func (h *EditorialHandler) RecordClinicianApproval(c *fiber.Ctx) error {
	var req dto.ClinicianApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.cardService.RecordClinicianApproval(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListReviewDueCards handles GET /api/editorial/cards/review-due
func (h *EditorialHandler) ListReviewDueCards(c *fiber.Ctx) error {
	resp, err := h.cardService.ListReviewDueCards(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GenerateBatch handles POST /api/editorial/batches
func (h *EditorialHandler) GenerateBatch(c *fiber.Ctx) error {
	var req dto.GenerateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.batchService.GenerateBatch(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetBatch handles GET /api/editorial/batches/:id
func (h *EditorialHandler) GetBatch(c *fiber.Ctx) error {
	resp, err := h.batchService.GetBatch(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListBatches handles GET /api/editorial/batches
func (h *EditorialHandler) ListBatches(c *fiber.Ctx) error {
	resp, err := h.batchService.ListBatches(c.Context(),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteCardFromBatch handles DELETE /api/editorial/batches/:id/cards/:cardId
func (h *EditorialHandler) DeleteCardFromBatch(c *fiber.Ctx) error {
	resp, err := h.batchService.DeleteCardFromBatch(c.Context(), c.Params("id"), c.Params("cardId"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SetActiveCard handles PUT /api/editorial/batches/:id/active-card/:cardId
func (h *EditorialHandler) SetActiveCard(c *fiber.Ctx) error {
	resp, err := h.batchService.SetActiveCard(c.Context(), c.Params("id"), c.Params("cardId"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListTags handles GET /api/editorial/settings/tags
func (h *EditorialHandler) ListTags(c *fiber.Ctx) error {
	resp, err := h.settingsService.ListTags(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateTag handles POST /api/editorial/settings/tags
func (h *EditorialHandler) CreateTag(c *fiber.Ctx) error {
	var req dto.CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.settingsService.CreateTag(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// DeleteTag handles DELETE /api/editorial/settings/tags/:id
func (h *EditorialHandler) DeleteTag(c *fiber.Ctx) error {
	if err := h.settingsService.DeleteTag(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTemplates handles GET /api/editorial/settings/templates
func (h *EditorialHandler) ListTemplates(c *fiber.Ctx) error {
	resp, err := h.settingsService.ListTemplates(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetTemplate handles GET /api/editorial/settings/templates/:id
func (h *EditorialHandler) GetTemplate(c *fiber.Ctx) error {
	resp, err := h.settingsService.GetTemplate(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateTemplate handles POST /api/editorial/settings/templates
func (h *EditorialHandler) CreateTemplate(c *fiber.Ctx) error {
	var req dto.SaveTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.settingsService.CreateTemplate(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateTemplate handles PUT /api/editorial/settings/templates/:id
func (h *EditorialHandler) UpdateTemplate(c *fiber.Ctx) error {
	var req dto.SaveTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return errs
	}

	resp, err := h.settingsService.UpdateTemplate(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteTemplate handles DELETE /api/editorial/settings/templates/:id
func (h *EditorialHandler) DeleteTemplate(c *fiber.Ctx) error {
	if err := h.settingsService.DeleteTemplate(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorialHandler) invalidatePathway(c *fiber.Ctx) {
	if h.pathwayService == nil {
		return
	}
	if err := h.pathwayService.InvalidatePathwayCache(c.Context()); err != nil {
		logger.Get().Warn("Failed to invalidate pathway cache", zap.Error(err))
	}
}
