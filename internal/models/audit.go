package models

import (
	"time"

	"gorm.io/datatypes"
)

// AdminActionLog is an append-only audit record of admin actions. Title and
// body feed notification surfaces; metadata carries structured identifiers.
type AdminActionLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ActorUserID uint              `gorm:"not null;index" json:"actor_user_id"`
	Action      string            `gorm:"size:64;not null;index" json:"action"`
	EntityType  string            `gorm:"size:64;not null;index" json:"entity_type"`
	EntityID    *uint             `json:"entity_id"`
	Message     string            `gorm:"size:512" json:"message"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Title       string            `gorm:"size:255" json:"title"`
	Body        string            `gorm:"type:text" json:"body"`
	CreatedAt   time.Time         `json:"created_at"`
}
