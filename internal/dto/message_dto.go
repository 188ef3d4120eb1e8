package dto

import (
	"time"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// MessageComposeRequest captures a staff-composed outbound message.
type MessageComposeRequest struct {
	Channel   string `json:"channel" validate:"required,oneof=email sms"`
	Recipient string `json:"recipient" validate:"required,min=3,max=255"`
	Subject   string `json:"subject" validate:"omitempty,max=255"`
	Body      string `json:"body" validate:"required"`
}

// MessageListRequest defines filters for listing outbound messages.
type MessageListRequest struct {
	Page     int
	PageSize int
	Channel  string
	Status   string
}

// MessageResponse serializes an outbound message.
type MessageResponse struct {
	ID        uint      `json:"id"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	QueuedBy  uint      `json:"queued_by"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageListResponse wraps paginated outbound messages.
type MessageListResponse struct {
	Items      []MessageResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewMessageResponse converts an outbound message model into a DTO.
func NewMessageResponse(message models.OutboundMessage) MessageResponse {
	return MessageResponse{
		ID:        message.ID,
		Channel:   message.Channel,
		Recipient: message.Recipient,
		Subject:   message.Subject,
		Body:      message.Body,
		Status:    message.Status,
		QueuedBy:  message.QueuedBy,
		CreatedAt: message.CreatedAt,
	}
}
