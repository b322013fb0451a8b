package handler

import (
	"dailydose/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

// HealthHandler reports liveness of the API and its backing stores.
type HealthHandler struct {
	db    *sqlx.DB
	cache domain.Cache
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db *sqlx.DB, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}
	code := fiber.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(c.Context()); err != nil {
			status["database"] = "down"
			code = fiber.StatusServiceUnavailable
		} else {
			status["database"] = "up"
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(c.Context()); err != nil {
			status["cache"] = "down"
			code = fiber.StatusServiceUnavailable
		} else {
			status["cache"] = "up"
		}
	}
	if code != fiber.StatusOK {
		status["status"] = "degraded"
	}
	return c.Status(code).JSON(status)
}
