package dto

import (
	"time"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// ApplicationCreateRequest captures a submission payload. At least one of
// email or phone must be present; the service enforces that cross-field rule.
type ApplicationCreateRequest struct {
	CohortID uint   `json:"cohort_id" validate:"required,gt=0"`
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,max=64"`
}

// ApplicationListRequest defines filters for listing applications.
type ApplicationListRequest struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	CohortID uint
	Sort     string
}

// ApplicationResponse serializes an application with its applicant.
type ApplicationResponse struct {
	ID          uint       `json:"id"`
	CohortID    uint       `json:"cohort_id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Status      string     `json:"status"`
	ReviewedBy  *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// ApplicationListResponse wraps a paginated application response.
type ApplicationListResponse struct {
	Items      []ApplicationResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// RejectRequest carries the optional free-text rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

// ApprovalResult is the caller-facing contract of a successful approval.
// GeneratedPassword is set only when a new user was created and is delivered
// exactly once for credential dispatch.
type ApprovalResult struct {
	ApplicationID     uint    `json:"application_id"`
	Status            string  `json:"status"`
	StudentUserID     uint    `json:"student_user_id"`
	EnrollmentID      uint    `json:"enrollment_id"`
	GeneratedPassword *string `json:"generated_password"`
}

// RejectionResult is the caller-facing contract of a rejection.
type RejectionResult struct {
	ApplicationID uint   `json:"application_id"`
	Status        string `json:"status"`
}

// ImportRowError reports a single failed row from a CSV import.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportReport summarizes a CSV roster import.
type ImportReport struct {
	Total      int              `json:"total"`
	Created    int              `json:"created"`
	Duplicates int              `json:"duplicates"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// NewApplicationResponse converts an application model into a DTO.
func NewApplicationResponse(application models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          application.ID,
		CohortID:    application.CohortID,
		FullName:    application.Applicant.FullName,
		Email:       application.Applicant.Email,
		Phone:       application.Applicant.Phone,
		Status:      application.Status,
		ReviewedBy:  application.ReviewedBy,
		ReviewedAt:  application.ReviewedAt,
		SubmittedAt: application.SubmittedAt,
	}
}
