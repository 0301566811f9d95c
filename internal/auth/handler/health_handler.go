package handler

import (
	"context"

	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/domain"
	"github.com/gofiber/fiber/v2"
)

// DBPinger is the liveness probe surface of the database pool.
type DBPinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db       DBPinger
	counters domain.CounterStore
}

func NewHealthHandler(db DBPinger, counters domain.CounterStore) *HealthHandler {
	return &HealthHandler{db: db, counters: counters}
}

func (h *HealthHandler) DB(c *fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"database": "error"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"database": "ok"})
}

func (h *HealthHandler) Redis(c *fiber.Ctx) error {
	if err := h.counters.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"redis": "error"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"redis": "ok"})
}

func (h *HealthHandler) Full(c *fiber.Ctx) error {
	dbStatus := "ok"
	redisStatus := "ok"
	status := fiber.StatusOK

	if err := h.db.Ping(c.Context()); err != nil {
		dbStatus = "error"
		status = fiber.StatusServiceUnavailable
	}
	if err := h.counters.Ping(c.Context()); err != nil {
		redisStatus = "error"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
