package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/service"
	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// ContentHandler serves announcements and CMS pages.
type ContentHandler struct {
	content service.ContentService
	logger  zerolog.Logger
}

// NewContentHandler constructs the content handler.
func NewContentHandler(content service.ContentService, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		content: content,
		logger:  logger.With().Str("component", "content_handler").Logger(),
	}
}

func (h *ContentHandler) CreateAnnouncement(c *fiber.Ctx) error {
	var req dto.AnnouncementCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.content.CreateAnnouncement(c.UserContext(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSlugTaken):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to create announcement")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create announcement")
		}
	}

	return utils.SendCreated(c, "announcement created", response)
}

func (h *ContentHandler) GetAnnouncement(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	if slug == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid slug")
	}

	response, err := h.content.GetAnnouncement(c.UserContext(), slug)
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Str("slug", slug).Msg("failed to fetch announcement")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch announcement")
	}

	return utils.SendSuccess(c, "announcement retrieved", response)
}

func (h *ContentHandler) ListAnnouncements(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c)
	publishedOnly := c.QueryBool("published", false)

	response, err := h.content.ListAnnouncements(c.UserContext(), publishedOnly, page, pageSize)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list announcements")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list announcements")
	}

	return utils.SendSuccess(c, "announcements retrieved", response)
}

func (h *ContentHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.AnnouncementUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.content.UpdateAnnouncement(c.UserContext(), id, req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAnnouncementNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			h.logger.Error().Err(err).Uint("announcement_id", id).Msg("failed to update announcement")
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendSuccess(c, "announcement updated", response)
}

func (h *ContentHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.content.DeleteAnnouncement(c.UserContext(), id); err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Uint("announcement_id", id).Msg("failed to delete announcement")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete announcement")
	}

	return utils.SendSuccess(c, "announcement deleted", nil)
}

func (h *ContentHandler) CreatePage(c *fiber.Ctx) error {
	var req dto.PageCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.content.CreatePage(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendCreated(c, "page created", response)
}

func (h *ContentHandler) GetPage(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	if slug == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid slug")
	}

	response, err := h.content.GetPage(c.UserContext(), slug)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Str("slug", slug).Msg("failed to fetch page")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch page")
	}

	return utils.SendSuccess(c, "page retrieved", response)
}

func (h *ContentHandler) ListPages(c *fiber.Ctx) error {
	publishedOnly := c.QueryBool("published", false)

	response, err := h.content.ListPages(c.UserContext(), publishedOnly)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list pages")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list pages")
	}

	return utils.SendSuccess(c, "pages retrieved", response)
}

func (h *ContentHandler) UpdatePage(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.PageUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.content.UpdatePage(c.UserContext(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPageNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendSuccess(c, "page updated", response)
}

func (h *ContentHandler) DeletePage(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.content.DeletePage(c.UserContext(), id); err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Uint("page_id", id).Msg("failed to delete page")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete page")
	}

	return utils.SendSuccess(c, "page deleted", nil)
}
