package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// AuditListRequest defines filters for retrieving audit log entries.
type AuditListRequest struct {
	Page        int
	PageSize    int
	ActorUserID uint
	Action      string
	EntityType  string
}

// AuditEntryResponse serializes an admin action log entry.
type AuditEntryResponse struct {
	ID          uint                   `json:"id"`
	ActorUserID uint                   `json:"actor_user_id"`
	Action      string                 `json:"action"`
	EntityType  string                 `json:"entity_type"`
	EntityID    *uint                  `json:"entity_id"`
	Message     string                 `json:"message"`
	Metadata    map[string]interface{} `json:"metadata"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	CreatedAt   time.Time              `json:"created_at"`
}

// AuditListResponse wraps paginated audit entries.
type AuditListResponse struct {
	Items      []AuditEntryResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// NewAuditEntryResponse converts a model into an audit DTO.
func NewAuditEntryResponse(entry models.AdminActionLog) AuditEntryResponse {
	return AuditEntryResponse{
		ID:          entry.ID,
		ActorUserID: entry.ActorUserID,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Message:     entry.Message,
		Metadata:    metadataFromJSON(entry.Metadata),
		Title:       entry.Title,
		Body:        entry.Body,
		CreatedAt:   entry.CreatedAt,
	}
}

func metadataFromJSON(data datatypes.JSONMap) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}(data)
}
