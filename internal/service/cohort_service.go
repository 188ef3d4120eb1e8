package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

// CohortService manages cohorts and their seat statistics.
type CohortService interface {
	Create(ctx context.Context, req dto.CohortCreateRequest) (dto.CohortResponse, error)
	Get(ctx context.Context, id uint) (dto.CohortResponse, error)
	List(ctx context.Context, search string, programID uint, page, pageSize int) (dto.CohortListResponse, error)
	Update(ctx context.Context, id uint, req dto.CohortUpdateRequest) (dto.CohortResponse, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context, id uint) (dto.CohortStatsResponse, error)
	InvalidateStats(ctx context.Context, id uint)
}

type cohortService struct {
	cohorts      repository.CohortRepository
	enrollments  repository.EnrollmentRepository
	applications repository.ApplicationRepository
	programs     repository.ProgramRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	validator    *validator.Validate
	logger       zerolog.Logger
	now          func() time.Time
}

// NewCohortService constructs the cohort service.
func NewCohortService(
	cohorts repository.CohortRepository,
	enrollments repository.EnrollmentRepository,
	applications repository.ApplicationRepository,
	programs repository.ProgramRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger zerolog.Logger,
) CohortService {
	return &cohortService{
		cohorts:      cohorts,
		enrollments:  enrollments,
		applications: applications,
		programs:     programs,
		cache:        cache,
		cacheTTL:     cacheTTL,
		validator:    validate,
		logger:       logger.With().Str("component", "cohort_service").Logger(),
		now:          time.Now,
	}
}

func (s *cohortService) Create(ctx context.Context, req dto.CohortCreateRequest) (dto.CohortResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CohortResponse{}, err
	}

	if _, err := s.programs.GetByID(ctx, req.ProgramID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CohortResponse{}, ErrProgramNotFound
		}
		return dto.CohortResponse{}, err
	}

	cohort := models.Cohort{
		ProgramID: req.ProgramID,
		Name:      strings.TrimSpace(req.Name),
		Capacity:  req.Capacity,
		StartsAt:  req.StartsAt,
	}
	if err := s.cohorts.Create(ctx, &cohort); err != nil {
		return dto.CohortResponse{}, err
	}

	return dto.NewCohortResponse(cohort), nil
}

func (s *cohortService) Get(ctx context.Context, id uint) (dto.CohortResponse, error) {
	cohort, err := s.cohorts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CohortResponse{}, ErrCohortNotFound
		}
		return dto.CohortResponse{}, err
	}

	return dto.NewCohortResponse(cohort), nil
}

func (s *cohortService) List(ctx context.Context, search string, programID uint, page, pageSize int) (dto.CohortListResponse, error) {
	filter := repository.CohortFilter{
		Search:   strings.TrimSpace(search),
		Page:     page,
		PageSize: pageSize,
	}
	if programID > 0 {
		filter.ProgramID = &programID
	}

	cohorts, total, err := s.cohorts.List(ctx, filter)
	if err != nil {
		return dto.CohortListResponse{}, err
	}

	responses := make([]dto.CohortResponse, 0, len(cohorts))
	for _, cohort := range cohorts {
		responses = append(responses, dto.NewCohortResponse(cohort))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.CohortListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *cohortService) Update(ctx context.Context, id uint, req dto.CohortUpdateRequest) (dto.CohortResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CohortResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	cohort, err := s.cohorts.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CohortResponse{}, ErrCohortNotFound
		}
		return dto.CohortResponse{}, err
	}

	s.InvalidateStats(ctx, id)

	return dto.NewCohortResponse(cohort), nil
}

func (s *cohortService) Delete(ctx context.Context, id uint) error {
	if err := s.cohorts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCohortNotFound
		}
		return err
	}

	s.InvalidateStats(ctx, id)

	return nil
}

// Stats returns seat occupancy, read through a short-lived cache so the
// dashboard can poll it cheaply.
func (s *cohortService) Stats(ctx context.Context, id uint) (dto.CohortStatsResponse, error) {
	cacheKey := s.statsKey(id)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.CohortStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read cohort stats cache")
		}
	}

	cohort, err := s.cohorts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CohortStatsResponse{}, ErrCohortNotFound
		}
		return dto.CohortStatsResponse{}, err
	}

	active, err := s.enrollments.CountActiveByCohort(ctx, cohort.ID)
	if err != nil {
		return dto.CohortStatsResponse{}, err
	}

	pending, err := s.applications.CountByStatus(ctx, cohort.ID, models.ApplicationStatusPending)
	if err != nil {
		return dto.CohortStatsResponse{}, err
	}

	response := dto.CohortStatsResponse{
		CohortID:            cohort.ID,
		Capacity:            cohort.Capacity,
		ActiveEnrollments:   active,
		PendingApplications: pending,
		GeneratedAt:         s.now().UTC(),
	}
	if cohort.Capacity != nil {
		remaining := int64(*cohort.Capacity) - active
		if remaining < 0 {
			remaining = 0
		}
		response.SeatsRemaining = &remaining
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store cohort stats cache")
			}
		}
	}

	return response, nil
}

func (s *cohortService) statsKey(id uint) string {
	return fmt.Sprintf("cohort:stats:%d", id)
}

// InvalidateStats drops the cached seat stats for a cohort. Callers invoke it
// after any write that changes occupancy, the enrollment insert on approval
// included, so the dashboard never reports a stale free seat for the TTL.
func (s *cohortService) InvalidateStats(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.statsKey(id)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("cohort_id", id).Msg("failed to invalidate cohort stats cache")
	}
}
