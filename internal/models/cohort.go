package models

import "time"

// Program is an offering that cohorts are instances of.
type Program struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Cohort is a bounded-capacity class instance applications target.
// A nil capacity means unlimited seats.
type Cohort struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProgramID uint      `gorm:"not null" json:"program_id"`
	Program   Program   `gorm:"foreignKey:ProgramID" json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Capacity  *int      `json:"capacity"`
	StartsAt  time.Time `json:"starts_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
