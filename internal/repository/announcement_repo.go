package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// AnnouncementFilter narrows announcement list queries.
type AnnouncementFilter struct {
	PublishedOnly bool
	Page          int
	PageSize      int
}

// AnnouncementRepository exposes persistence helpers for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetBySlug(ctx context.Context, slug string) (models.Announcement, error)
	List(ctx context.Context, filter AnnouncementFilter) ([]models.Announcement, int64, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Announcement, error)
	Delete(ctx context.Context, id uint) error
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository constructs the announcement repository.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepository) GetBySlug(ctx context.Context, slug string) (models.Announcement, error) {
	var announcement models.Announcement
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&announcement).Error; err != nil {
		return models.Announcement{}, err
	}

	return announcement, nil
}

func (r *announcementRepository) List(ctx context.Context, filter AnnouncementFilter) ([]models.Announcement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Announcement{})

	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
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

	var announcements []models.Announcement
	if err := query.Order("created_at DESC").Find(&announcements).Error; err != nil {
		return nil, 0, err
	}

	return announcements, total, nil
}

func (r *announcementRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Announcement, error) {
	result := r.db.WithContext(ctx).Model(&models.Announcement{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return models.Announcement{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Announcement{}, gorm.ErrRecordNotFound
	}

	var announcement models.Announcement
	if err := r.db.WithContext(ctx).First(&announcement, id).Error; err != nil {
		return models.Announcement{}, err
	}

	return announcement, nil
}

func (r *announcementRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
