package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// AuditLogFilter narrows audit trail queries.
type AuditLogFilter struct {
	Page        int
	PageSize    int
	ActorUserID *uint
	Action      string
	EntityType  string
}

// AuditLogRepository persists the append-only admin action trail.
type AuditLogRepository interface {
	WithTx(tx *gorm.DB) AuditLogRepository
	Create(ctx context.Context, entry *models.AdminActionLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]models.AdminActionLog, int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository constructs the audit log repository.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) WithTx(tx *gorm.DB) AuditLogRepository {
	if tx == nil {
		return r
	}
	return &auditLogRepository{db: tx}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AdminActionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepository) List(ctx context.Context, filter AuditLogFilter) ([]models.AdminActionLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AdminActionLog{})

	if filter.ActorUserID != nil {
		query = query.Where("actor_user_id = ?", *filter.ActorUserID)
	}

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
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

	var entries []models.AdminActionLog
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
