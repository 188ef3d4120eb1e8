package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// CohortFilter narrows cohort list queries.
type CohortFilter struct {
	Search    string
	ProgramID *uint
	Page      int
	PageSize  int
}

// CohortRepository exposes persistence helpers for cohorts.
type CohortRepository interface {
	WithTx(tx *gorm.DB) CohortRepository
	Create(ctx context.Context, cohort *models.Cohort) error
	GetByID(ctx context.Context, id uint) (models.Cohort, error)
	GetForUpdate(ctx context.Context, id uint) (models.Cohort, error)
	List(ctx context.Context, filter CohortFilter) ([]models.Cohort, int64, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Cohort, error)
	Delete(ctx context.Context, id uint) error
}

type cohortRepository struct {
	db *gorm.DB
}

// NewCohortRepository constructs the cohort repository.
func NewCohortRepository(db *gorm.DB) CohortRepository {
	return &cohortRepository{db: db}
}

func (r *cohortRepository) WithTx(tx *gorm.DB) CohortRepository {
	if tx == nil {
		return r
	}
	return &cohortRepository{db: tx}
}

func (r *cohortRepository) Create(ctx context.Context, cohort *models.Cohort) error {
	return r.db.WithContext(ctx).Create(cohort).Error
}

func (r *cohortRepository) GetByID(ctx context.Context, id uint) (models.Cohort, error) {
	var cohort models.Cohort
	if err := r.db.WithContext(ctx).First(&cohort, id).Error; err != nil {
		return models.Cohort{}, err
	}

	return cohort, nil
}

// GetForUpdate fetches the cohort row holding a row lock for the remainder
// of the surrounding transaction, serializing concurrent capacity checks.
// SQLite has a single writer and rejects FOR UPDATE, so the clause is
// applied only on Postgres.
func (r *cohortRepository) GetForUpdate(ctx context.Context, id uint) (models.Cohort, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var cohort models.Cohort
	if err := query.First(&cohort, id).Error; err != nil {
		return models.Cohort{}, err
	}

	return cohort, nil
}

func (r *cohortRepository) List(ctx context.Context, filter CohortFilter) ([]models.Cohort, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Cohort{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", like)
	}

	if filter.ProgramID != nil {
		query = query.Where("program_id = ?", *filter.ProgramID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("starts_at DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var cohorts []models.Cohort
	if err := query.Find(&cohorts).Error; err != nil {
		return nil, 0, err
	}

	return cohorts, total, nil
}

func (r *cohortRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Cohort, error) {
	result := r.db.WithContext(ctx).Model(&models.Cohort{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return models.Cohort{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Cohort{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *cohortRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Cohort{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
