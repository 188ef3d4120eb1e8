package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// MessageFilter narrows outbound message queries.
type MessageFilter struct {
	Channel  string
	Status   string
	Page     int
	PageSize int
}

// MessageRepository persists outbound email/SMS records.
type MessageRepository interface {
	Create(ctx context.Context, message *models.OutboundMessage) error
	List(ctx context.Context, filter MessageFilter) ([]models.OutboundMessage, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs the outbound message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.OutboundMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) List(ctx context.Context, filter MessageFilter) ([]models.OutboundMessage, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OutboundMessage{})

	if filter.Channel != "" {
		query = query.Where("channel = ?", filter.Channel)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var messages []models.OutboundMessage
	if err := query.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *messageRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&models.OutboundMessage{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
