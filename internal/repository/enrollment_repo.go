package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// EnrollmentFilter narrows enrollment list queries.
type EnrollmentFilter struct {
	CohortID *uint
	UserID   *uint
	Status   string
	Page     int
	PageSize int
}

// EnrollmentRepository exposes persistence helpers for enrollments.
type EnrollmentRepository interface {
	WithTx(tx *gorm.DB) EnrollmentRepository
	Create(ctx context.Context, enrollment *models.Enrollment) error
	CountActiveByCohort(ctx context.Context, cohortID uint) (int64, error)
	List(ctx context.Context, filter EnrollmentFilter) ([]models.Enrollment, int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs the enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) WithTx(tx *gorm.DB) EnrollmentRepository {
	if tx == nil {
		return r
	}
	return &enrollmentRepository{db: tx}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

// CountActiveByCohort counts the enrollments that occupy seats. Run inside
// the approval transaction after the cohort row is locked.
func (r *enrollmentRepository) CountActiveByCohort(ctx context.Context, cohortID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("cohort_id = ?", cohortID).
		Where("status = ?", models.EnrollmentStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *enrollmentRepository) List(ctx context.Context, filter EnrollmentFilter) ([]models.Enrollment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Enrollment{})

	if filter.CohortID != nil {
		query = query.Where("cohort_id = ?", *filter.CohortID)
	}

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var enrollments []models.Enrollment
	if err := query.Find(&enrollments).Error; err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}
