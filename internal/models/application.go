package models

import "time"

// Application statuses. The pending -> approved/rejected transition is
// one-way; there is no un-approve.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Application is a single cohort-submission record tied to one applicant.
// The normalized columns back the duplicate-submission uniqueness
// constraints; both stay NULL when the contact channel is absent so
// email-less or phoneless submissions never collide with each other.
type Application struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CohortID    uint       `gorm:"not null;uniqueIndex:idx_applications_cohort_email;uniqueIndex:idx_applications_cohort_phone" json:"cohort_id"`
	Cohort      Cohort     `gorm:"foreignKey:CohortID" json:"-"`
	ApplicantID uint       `gorm:"not null" json:"applicant_id"`
	Applicant   Applicant  `gorm:"foreignKey:ApplicantID" json:"applicant"`
	EmailNorm   *string    `gorm:"size:255;uniqueIndex:idx_applications_cohort_email" json:"-"`
	PhoneNorm   *string    `gorm:"size:64;uniqueIndex:idx_applications_cohort_phone" json:"-"`
	Status      string     `gorm:"size:16;not null;default:pending" json:"status"`
	ReviewedBy  *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
