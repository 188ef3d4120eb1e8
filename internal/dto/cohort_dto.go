package dto

import (
	"time"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// CohortCreateRequest captures a new cohort payload.
type CohortCreateRequest struct {
	ProgramID uint      `json:"program_id" validate:"required,gt=0"`
	Name      string    `json:"name" validate:"required,min=2,max=255"`
	Capacity  *int      `json:"capacity" validate:"omitempty,gte=1"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
}

// CohortUpdateRequest captures partial cohort updates.
type CohortUpdateRequest struct {
	Name     *string    `json:"name" validate:"omitempty,min=2,max=255"`
	Capacity *int       `json:"capacity" validate:"omitempty,gte=1"`
	StartsAt *time.Time `json:"starts_at"`
}

// CohortResponse serializes a cohort.
type CohortResponse struct {
	ID        uint      `json:"id"`
	ProgramID uint      `json:"program_id"`
	Name      string    `json:"name"`
	Capacity  *int      `json:"capacity"`
	StartsAt  time.Time `json:"starts_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CohortListResponse wraps a paginated cohort response.
type CohortListResponse struct {
	Items      []CohortResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// CohortStatsResponse aggregates seat occupancy for one cohort.
type CohortStatsResponse struct {
	CohortID            uint      `json:"cohort_id"`
	Capacity            *int      `json:"capacity"`
	ActiveEnrollments   int64     `json:"active_enrollments"`
	SeatsRemaining      *int64    `json:"seats_remaining"`
	PendingApplications int64     `json:"pending_applications"`
	GeneratedAt         time.Time `json:"generated_at"`
	CacheHit            bool      `json:"cache_hit"`
}

// ProgramCreateRequest captures a new program payload.
type ProgramCreateRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"omitempty,max=4000"`
}

// ProgramUpdateRequest captures partial program updates.
type ProgramUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
}

// ProgramResponse serializes a program.
type ProgramResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCohortResponse converts a cohort model into a DTO.
func NewCohortResponse(cohort models.Cohort) CohortResponse {
	return CohortResponse{
		ID:        cohort.ID,
		ProgramID: cohort.ProgramID,
		Name:      cohort.Name,
		Capacity:  cohort.Capacity,
		StartsAt:  cohort.StartsAt,
		CreatedAt: cohort.CreatedAt,
		UpdatedAt: cohort.UpdatedAt,
	}
}

// NewProgramResponse converts a program model into a DTO.
func NewProgramResponse(program models.Program) ProgramResponse {
	return ProgramResponse{
		ID:          program.ID,
		Name:        program.Name,
		Description: program.Description,
		CreatedAt:   program.CreatedAt,
		UpdatedAt:   program.UpdatedAt,
	}
}
