package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/service"
	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// ProgramHandler serves program management endpoints.
type ProgramHandler struct {
	programs service.ProgramService
	logger   zerolog.Logger
}

// NewProgramHandler constructs the program handler.
func NewProgramHandler(programs service.ProgramService, logger zerolog.Logger) *ProgramHandler {
	return &ProgramHandler{
		programs: programs,
		logger:   logger.With().Str("component", "program_handler").Logger(),
	}
}

func (h *ProgramHandler) Create(c *fiber.Ctx) error {
	var req dto.ProgramCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.programs.Create(c.UserContext(), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to create program")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create program")
	}

	return utils.SendCreated(c, "program created", response)
}

func (h *ProgramHandler) List(c *fiber.Ctx) error {
	response, err := h.programs.List(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list programs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list programs")
	}

	return utils.SendSuccess(c, "programs retrieved", response)
}

func (h *ProgramHandler) Update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.ProgramUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.programs.Update(c.UserContext(), id, req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProgramNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			h.logger.Error().Err(err).Uint("program_id", id).Msg("failed to update program")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update program")
		}
	}

	return utils.SendSuccess(c, "program updated", response)
}

func (h *ProgramHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.programs.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Uint("program_id", id).Msg("failed to delete program")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete program")
	}

	return utils.SendSuccess(c, "program deleted", nil)
}
