package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/middleware"
	"github.com/noah-isme/admissions-go-api/internal/service"
	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// MessageHandler serves outbound message endpoints.
type MessageHandler struct {
	messages service.MessageService
	logger   zerolog.Logger
}

// NewMessageHandler constructs the message handler.
func NewMessageHandler(messages service.MessageService, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		logger:   logger.With().Str("component", "message_handler").Logger(),
	}
}

// Compose queues a staff-authored outbound message.
func (h *MessageHandler) Compose(c *fiber.Ctx) error {
	actorID, ok := middleware.ReviewerID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "actor identity missing")
	}

	var req dto.MessageComposeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.messages.Compose(c.UserContext(), actorID, req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to compose message")
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	return utils.SendCreated(c, "message queued", response)
}

// List returns outbound messages filtered by channel and status.
func (h *MessageHandler) List(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c)
	req := dto.MessageListRequest{
		Page:     page,
		PageSize: pageSize,
		Channel:  c.Query("channel"),
		Status:   c.Query("status"),
	}

	response, err := h.messages.List(c.UserContext(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list messages")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list messages")
	}

	return utils.SendSuccess(c, "messages retrieved", response)
}

// MarkSent records a delivery outcome reported by the delivery worker.
func (h *MessageHandler) MarkSent(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req struct {
		Delivered bool `json:"delivered"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.messages.MarkSent(c.UserContext(), id, req.Delivered); err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Uint("message_id", id).Msg("failed to update message status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update message status")
	}

	return utils.SendSuccess(c, "message status updated", nil)
}
