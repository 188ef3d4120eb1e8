package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/database"
	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/normalize"
	"github.com/noah-isme/admissions-go-api/internal/observability"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

// Domain errors for submission.
var (
	ErrDuplicateApplication = errors.New("an application for this cohort with the same email or phone already exists")
	ErrContactRequired      = errors.New("an email address or phone number is required")
	ErrCohortNotFound       = errors.New("cohort not found")
)

// ApplicationService handles submission and listing of applications.
type ApplicationService interface {
	Create(ctx context.Context, req dto.ApplicationCreateRequest) (dto.ApplicationResponse, error)
	Get(ctx context.Context, id uint) (dto.ApplicationResponse, error)
	List(ctx context.Context, req dto.ApplicationListRequest) (dto.ApplicationListResponse, error)
	Import(ctx context.Context, cohortID uint, r io.Reader, maxRows int) (dto.ImportReport, error)
}

type applicationService struct {
	db           *gorm.DB
	applications repository.ApplicationRepository
	applicants   repository.ApplicantRepository
	cohorts      repository.CohortRepository
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewApplicationService constructs the application service.
func NewApplicationService(
	db *gorm.DB,
	applications repository.ApplicationRepository,
	applicants repository.ApplicantRepository,
	cohorts repository.CohortRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationService{
		db:           db,
		applications: applications,
		applicants:   applicants,
		cohorts:      cohorts,
		validator:    validate,
		logger:       logger.With().Str("component", "application_service").Logger(),
	}
}

// Create normalizes contact details and inserts the applicant and
// application together. The database uniqueness constraint is the duplicate
// guard; its violation surfaces as ErrDuplicateApplication while any other
// database error propagates unchanged.
func (s *applicationService) Create(ctx context.Context, req dto.ApplicationCreateRequest) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ApplicationResponse{}, err
	}

	emailNorm := normalize.EmailKey(req.Email)
	phoneNorm := normalize.Phone(req.Phone)
	if emailNorm == nil && phoneNorm == nil {
		return dto.ApplicationResponse{}, ErrContactRequired
	}

	if _, err := s.cohorts.GetByID(ctx, req.CohortID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrCohortNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	var application models.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applicants := s.applicants.WithTx(tx)
		applications := s.applications.WithTx(tx)

		applicant := models.Applicant{
			FullName: strings.TrimSpace(req.FullName),
			Email:    strings.TrimSpace(req.Email),
			Phone:    strings.TrimSpace(req.Phone),
		}
		if err := applicants.Create(ctx, &applicant); err != nil {
			return err
		}

		application = models.Application{
			CohortID:    req.CohortID,
			ApplicantID: applicant.ID,
			EmailNorm:   emailNorm,
			PhoneNorm:   phoneNorm,
			Status:      models.ApplicationStatusPending,
			SubmittedAt: time.Now().UTC(),
		}
		if err := applications.Create(ctx, &application); err != nil {
			return err
		}

		application.Applicant = applicant
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return dto.ApplicationResponse{}, ErrDuplicateApplication
		}
		return dto.ApplicationResponse{}, err
	}

	observability.ApplicationsSubmittedTotal().Inc()

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) Get(ctx context.Context, id uint) (dto.ApplicationResponse, error) {
	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) List(ctx context.Context, req dto.ApplicationListRequest) (dto.ApplicationListResponse, error) {
	filter := repository.ApplicationFilter{
		Search:   strings.TrimSpace(req.Search),
		Status:   strings.TrimSpace(req.Status),
		Sort:     req.Sort,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.CohortID > 0 {
		cohortID := req.CohortID
		filter.CohortID = &cohortID
	}

	applications, total, err := s.applications.List(ctx, filter)
	if err != nil {
		return dto.ApplicationListResponse{}, err
	}

	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, dto.NewApplicationResponse(application))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.ApplicationListResponse{Items: responses, Pagination: pagination}, nil
}

// Import feeds CSV rows (full_name,email,phone) through the dup-guarded
// submission path. Duplicates are counted, not fatal; other row failures are
// reported per row.
func (s *applicationService) Import(ctx context.Context, cohortID uint, r io.Reader, maxRows int) (dto.ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	report := dto.ImportReport{}
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("invalid csv at row %d: %w", row+1, err)
		}
		row++

		if row == 1 && isImportHeader(record) {
			continue
		}

		if maxRows > 0 && report.Total >= maxRows {
			return report, fmt.Errorf("import exceeds the %d row limit", maxRows)
		}
		report.Total++

		if len(record) < 2 {
			report.Failed++
			report.Errors = append(report.Errors, dto.ImportRowError{Row: row, Reason: "expected full_name,email[,phone]"})
			continue
		}

		req := dto.ApplicationCreateRequest{
			CohortID: cohortID,
			FullName: strings.TrimSpace(record[0]),
			Email:    strings.TrimSpace(record[1]),
		}
		if len(record) > 2 {
			req.Phone = strings.TrimSpace(record[2])
		}

		if _, err := s.Create(ctx, req); err != nil {
			switch {
			case errors.Is(err, ErrDuplicateApplication):
				report.Duplicates++
			case errors.Is(err, ErrCohortNotFound):
				return report, err
			default:
				report.Failed++
				report.Errors = append(report.Errors, dto.ImportRowError{Row: row, Reason: importRowReason(err)})
			}
			continue
		}
		report.Created++
	}

	return report, nil
}

func isImportHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(record[0]), "full_name") ||
		strings.EqualFold(strings.TrimSpace(record[0]), "name")
}

func importRowReason(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) || errors.Is(err, ErrContactRequired) {
		return err.Error()
	}
	return "could not create application"
}
