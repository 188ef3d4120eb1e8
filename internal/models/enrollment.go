package models

import "time"

// Enrollment statuses. Capacity checks count active enrollments only.
const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusDropped   = "dropped"
)

// Enrollment links an approved application's platform user to a cohort.
// The unique application id guarantees at most one enrollment per approval.
type Enrollment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	CohortID      uint      `gorm:"not null;index" json:"cohort_id"`
	ApplicationID uint      `gorm:"not null;uniqueIndex" json:"application_id"`
	Status        string    `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
