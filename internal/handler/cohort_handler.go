package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/service"
	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// CohortHandler serves cohort management endpoints.
type CohortHandler struct {
	cohorts service.CohortService
	logger  zerolog.Logger
}

// NewCohortHandler constructs the cohort handler.
func NewCohortHandler(cohorts service.CohortService, logger zerolog.Logger) *CohortHandler {
	return &CohortHandler{
		cohorts: cohorts,
		logger:  logger.With().Str("component", "cohort_handler").Logger(),
	}
}

func (h *CohortHandler) Create(c *fiber.Ctx) error {
	var req dto.CohortCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.cohorts.Create(c.UserContext(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProgramNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to create cohort")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create cohort")
		}
	}

	return utils.SendCreated(c, "cohort created", response)
}

func (h *CohortHandler) Get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.cohorts.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrCohortNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Uint("cohort_id", id).Msg("failed to fetch cohort")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch cohort")
	}

	return utils.SendSuccess(c, "cohort retrieved", response)
}

func (h *CohortHandler) List(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c)
	programID := uint(parseQueryInt(c, "program_id", 0))

	response, err := h.cohorts.List(c.UserContext(), c.Query("search"), programID, page, pageSize)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list cohorts")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list cohorts")
	}

	return utils.SendSuccess(c, "cohorts retrieved", response)
}

func (h *CohortHandler) Update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.CohortUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.cohorts.Update(c.UserContext(), id, req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCohortNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			h.logger.Error().Err(err).Uint("cohort_id", id).Msg("failed to update cohort")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update cohort")
		}
	}

	return utils.SendSuccess(c, "cohort updated", response)
}

func (h *CohortHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.cohorts.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, service.ErrCohortNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Uint("cohort_id", id).Msg("failed to delete cohort")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete cohort")
	}

	return utils.SendSuccess(c, "cohort deleted", nil)
}

// Stats returns seat occupancy for one cohort.
func (h *CohortHandler) Stats(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.cohorts.Stats(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrCohortNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Uint("cohort_id", id).Msg("failed to compute cohort stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute cohort stats")
	}

	return utils.SendSuccess(c, "cohort stats retrieved", response)
}
