package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// HealthHandler reports service liveness and dependency reachability.
type HealthHandler struct {
	db    *gorm.DB
	cache *redis.Client
}

// NewHealthHandler constructs the health handler.
func NewHealthHandler(db *gorm.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check pings the database and cache and reports their status.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := fiber.Map{
		"status": "ok",
		"time":   time.Now().UTC(),
	}

	dbStatus := "ok"
	if h.db != nil {
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			dbStatus = "unreachable"
		}
	} else {
		dbStatus = "not configured"
	}
	status["database"] = dbStatus

	cacheStatus := "ok"
	if h.cache != nil {
		if err := h.cache.Ping(c.UserContext()).Err(); err != nil {
			cacheStatus = "unreachable"
		}
	} else {
		cacheStatus = "not configured"
	}
	status["cache"] = cacheStatus

	if dbStatus != "ok" {
		return utils.SendError(c, fiber.StatusServiceUnavailable, "database unreachable")
	}

	return utils.SendSuccess(c, "healthy", status)
}
