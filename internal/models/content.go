package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Announcement is a dashboard/landing announcement with a sanitized HTML body.
type Announcement struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Slug      string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Body      string         `gorm:"type:text" json:"body"`
	Published bool           `gorm:"not null;default:false" json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Page is a CMS page composed of structured content blocks. Blocks are
// validated against the page block schema before persistence.
type Page struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Slug      string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Blocks    datatypes.JSON `gorm:"type:json" json:"blocks"`
	Published bool           `gorm:"not null;default:false" json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
