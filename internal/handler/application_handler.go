package handler

import (
	"bytes"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/middleware"
	"github.com/noah-isme/admissions-go-api/internal/service"
	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// ApplicationHandler serves application submission, listing and review.
type ApplicationHandler struct {
	applications service.ApplicationService
	approvals    service.ApprovalService
	cohorts      service.CohortService
	messages     service.MessageService
	importLimit  int
	logger       zerolog.Logger
}

// NewApplicationHandler constructs the application handler.
func NewApplicationHandler(
	applications service.ApplicationService,
	approvals service.ApprovalService,
	cohorts service.CohortService,
	messages service.MessageService,
	importLimit int,
	logger zerolog.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		approvals:    approvals,
		cohorts:      cohorts,
		messages:     messages,
		importLimit:  importLimit,
		logger:       logger.With().Str("component", "application_handler").Logger(),
	}
}

// Create accepts a public application submission.
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var req dto.ApplicationCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.applications.Create(c.UserContext(), req)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrContactRequired):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCohortNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDuplicateApplication):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to create application")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create application")
		}
	}

	return utils.SendCreated(c, "application submitted", response)
}

// Get returns one application by ID.
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.applications.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrApplicationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Uint("application_id", id).Msg("failed to fetch application")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch application")
	}

	return utils.SendSuccess(c, "application retrieved", response)
}

// List returns applications filtered by search, status, cohort and sort.
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c)
	req := dto.ApplicationListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
		CohortID: uint(parseQueryInt(c, "cohort_id", 0)),
	}

	response, err := h.applications.List(c.UserContext(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list applications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list applications")
	}

	return utils.SendSuccess(c, "applications retrieved", response)
}

// Approve runs the approval pipeline and queues the credentials email when a
// new account was created.
func (h *ApplicationHandler) Approve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	reviewerID, ok := middleware.ReviewerID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "reviewer identity missing")
	}

	result, err := h.approvals.Approve(c.UserContext(), id, reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrApplicationAlreadyReviewed):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrApplicantEmailRequired):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrCohortCapacityExceeded):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			h.logger.Error().Err(err).Uint("application_id", id).Msg("failed to approve application")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to approve application")
		}
	}

	if result.GeneratedPassword != nil {
		h.queueCredentials(c, reviewerID, result)
	}

	return utils.SendSuccess(c, "application approved", result)
}

// queueCredentials dispatches the one-time credentials email. Failure here
// does not undo the approval; the message can be re-queued from the console.
func (h *ApplicationHandler) queueCredentials(c *fiber.Ctx, reviewerID uint, result dto.ApprovalResult) {
	ctx := c.UserContext()

	application, err := h.applications.Get(ctx, result.ApplicationID)
	if err != nil {
		h.logger.Error().Err(err).Uint("application_id", result.ApplicationID).Msg("failed to load application for credentials message")
		return
	}

	cohortName := ""
	if cohort, err := h.cohorts.Get(ctx, application.CohortID); err == nil {
		cohortName = cohort.Name
	}

	if _, err := h.messages.QueueCredentials(ctx, reviewerID, application.Email, application.FullName, cohortName, *result.GeneratedPassword); err != nil {
		h.logger.Error().Err(err).Uint("application_id", result.ApplicationID).Msg("failed to queue credentials message")
	}
}

// Reject flips a pending application to rejected.
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	reviewerID, ok := middleware.ReviewerID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "reviewer identity missing")
	}

	var req dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	result, err := h.approvals.Reject(c.UserContext(), id, reviewerID, strings.TrimSpace(req.Reason))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrApplicationAlreadyReviewed):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			h.logger.Error().Err(err).Uint("application_id", id).Msg("failed to reject application")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to reject application")
		}
	}

	return utils.SendSuccess(c, "application rejected", result)
}

// Import ingests a CSV roster for one cohort.
func (h *ApplicationHandler) Import(c *fiber.Ctx) error {
	cohortID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "a csv file upload is required")
	}

	source, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "could not read the uploaded file")
	}
	defer source.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(source); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "could not read the uploaded file")
	}

	detected := mimetype.Detect(buf.Bytes())
	if !detected.Is("text/csv") && !detected.Is("text/plain") {
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, "expected a csv file, got "+detected.String())
	}

	report, err := h.applications.Import(c.UserContext(), cohortID, &buf, h.importLimit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCohortNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			h.logger.Error().Err(err).Uint("cohort_id", cohortID).Msg("csv import failed")
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendSuccess(c, "import completed", report)
}
