package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// PageRepository exposes persistence helpers for CMS pages.
type PageRepository interface {
	Create(ctx context.Context, page *models.Page) error
	GetBySlug(ctx context.Context, slug string) (models.Page, error)
	List(ctx context.Context, publishedOnly bool) ([]models.Page, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Page, error)
	Delete(ctx context.Context, id uint) error
}

type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository constructs the page repository.
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(ctx context.Context, page *models.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *pageRepository) GetBySlug(ctx context.Context, slug string) (models.Page, error) {
	var page models.Page
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error; err != nil {
		return models.Page{}, err
	}

	return page, nil
}

func (r *pageRepository) List(ctx context.Context, publishedOnly bool) ([]models.Page, error) {
	query := r.db.WithContext(ctx).Model(&models.Page{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	var pages []models.Page
	if err := query.Order("slug ASC").Find(&pages).Error; err != nil {
		return nil, err
	}

	return pages, nil
}

func (r *pageRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Page, error) {
	result := r.db.WithContext(ctx).Model(&models.Page{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return models.Page{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Page{}, gorm.ErrRecordNotFound
	}

	var page models.Page
	if err := r.db.WithContext(ctx).First(&page, id).Error; err != nil {
		return models.Page{}, err
	}

	return page, nil
}

func (r *pageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Page{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
