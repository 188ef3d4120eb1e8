package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/observability"
	"github.com/noah-isme/admissions-go-api/internal/service"
	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// AuditHandler serves the audit trail and its live feed.
type AuditHandler struct {
	audit  service.AuditService
	logger zerolog.Logger
}

// NewAuditHandler constructs the audit handler.
func NewAuditHandler(audit service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		audit:  audit,
		logger: logger.With().Str("component", "audit_handler").Logger(),
	}
}

// List returns audit entries, newest first.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c)
	req := dto.AuditListRequest{
		Page:        page,
		PageSize:    pageSize,
		ActorUserID: uint(parseQueryInt(c, "actor_user_id", 0)),
		Action:      c.Query("action"),
		EntityType:  c.Query("entity_type"),
	}

	response, err := h.audit.List(c.UserContext(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list audit entries")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list audit entries")
	}

	return utils.SendSuccess(c, "audit entries retrieved", response)
}

// FeedUpgrade rejects plain HTTP requests on the live feed route.
func (h *AuditHandler) FeedUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return utils.SendError(c, fiber.StatusUpgradeRequired, "websocket upgrade required")
}

// Feed streams committed audit entries to a websocket client.
func (h *AuditHandler) Feed() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		entries, cancel := h.audit.Subscribe()
		defer cancel()

		observability.AuditFeedClientsActive().Inc()
		defer observability.AuditFeedClientsActive().Dec()

		// Reads only detect disconnects; the feed is write-only.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				if err := conn.WriteJSON(entry); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
