package models

import "time"

// Outbound message channels and statuses. Delivery itself is handled by
// external workers consuming the queued-message events.
const (
	MessageChannelEmail = "email"
	MessageChannelSMS   = "sms"

	MessageStatusQueued = "queued"
	MessageStatusSent   = "sent"
	MessageStatusFailed = "failed"
)

// OutboundMessage is a staff-composed email or SMS queued for delivery.
type OutboundMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Channel   string    `gorm:"size:16;not null" json:"channel"`
	Recipient string    `gorm:"size:255;not null" json:"recipient"`
	Subject   string    `gorm:"size:255" json:"subject"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Status    string    `gorm:"size:16;not null;default:queued" json:"status"`
	QueuedBy  uint      `gorm:"not null" json:"queued_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
