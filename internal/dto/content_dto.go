package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// AnnouncementCreateRequest captures a new announcement payload. The body is
// sanitized before persistence.
type AnnouncementCreateRequest struct {
	Slug      string `json:"slug" validate:"required,min=2,max=255"`
	Title     string `json:"title" validate:"required,min=2,max=255"`
	Body      string `json:"body" validate:"required"`
	Published bool   `json:"published"`
}

// AnnouncementUpdateRequest captures partial announcement updates.
type AnnouncementUpdateRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=2,max=255"`
	Body      *string `json:"body"`
	Published *bool   `json:"published"`
}

// AnnouncementResponse serializes an announcement.
type AnnouncementResponse struct {
	ID        uint      `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnnouncementListResponse wraps paginated announcements.
type AnnouncementListResponse struct {
	Items      []AnnouncementResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// PageCreateRequest captures a CMS page payload. Blocks must conform to the
// page block schema.
type PageCreateRequest struct {
	Slug      string          `json:"slug" validate:"required,min=2,max=255"`
	Title     string          `json:"title" validate:"required,min=2,max=255"`
	Blocks    json.RawMessage `json:"blocks" validate:"required"`
	Published bool            `json:"published"`
}

// PageUpdateRequest captures partial page updates.
type PageUpdateRequest struct {
	Title     *string         `json:"title" validate:"omitempty,min=2,max=255"`
	Blocks    json.RawMessage `json:"blocks"`
	Published *bool           `json:"published"`
}

// PageResponse serializes a CMS page.
type PageResponse struct {
	ID        uint            `json:"id"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Blocks    json.RawMessage `json:"blocks"`
	Published bool            `json:"published"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewAnnouncementResponse converts an announcement model into a DTO.
func NewAnnouncementResponse(announcement models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        announcement.ID,
		Slug:      announcement.Slug,
		Title:     announcement.Title,
		Body:      announcement.Body,
		Published: announcement.Published,
		CreatedAt: announcement.CreatedAt,
		UpdatedAt: announcement.UpdatedAt,
	}
}

// NewPageResponse converts a page model into a DTO.
func NewPageResponse(page models.Page) PageResponse {
	return PageResponse{
		ID:        page.ID,
		Slug:      page.Slug,
		Title:     page.Title,
		Blocks:    json.RawMessage(page.Blocks),
		Published: page.Published,
		CreatedAt: page.CreatedAt,
		UpdatedAt: page.UpdatedAt,
	}
}
