package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// ApplicationFilter narrows application list queries.
type ApplicationFilter struct {
	Search   string
	Status   string
	CohortID *uint
	Sort     string
	Page     int
	PageSize int
}

// ApplicationRepository exposes persistence helpers for applications.
type ApplicationRepository interface {
	WithTx(tx *gorm.DB) ApplicationRepository
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id uint) (models.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, int64, error)
	CountByStatus(ctx context.Context, cohortID uint, status string) (int64, error)
	MarkReviewed(ctx context.Context, id uint, status string, reviewerID uint, reviewedAt time.Time) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository constructs the application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) WithTx(tx *gorm.DB) ApplicationRepository {
	if tx == nil {
		return r
	}
	return &applicationRepository{db: tx}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		First(&application, id).Error
	if err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{}).
		Joins("JOIN applicants ON applicants.id = applications.applicant_id")

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(applicants.full_name) LIKE ? OR applications.email_norm LIKE ?", like, like)
	}

	if filter.Status != "" {
		query = query.Where("applications.status = ?", filter.Status)
	}

	if filter.CohortID != nil {
		query = query.Where("applications.cohort_id = ?", *filter.CohortID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(applicationSort(filter.Sort))

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var applications []models.Application
	if err := query.Preload("Applicant").Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

func (r *applicationRepository) CountByStatus(ctx context.Context, cohortID uint, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("cohort_id = ?", cohortID).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// MarkReviewed flips a pending application to the given status. The
// conditional predicate is the idempotency guard: zero affected rows means
// the application was already decided.
func (r *applicationRepository) MarkReviewed(ctx context.Context, id uint, status string, reviewerID uint, reviewedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Where("status = ?", models.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": reviewedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// applicationSort whitelists sortable columns so list input never reaches
// the ORDER BY clause verbatim.
func applicationSort(sort string) string {
	switch sort {
	case "submitted_at":
		return "applications.submitted_at ASC"
	case "-submitted_at", "":
		return "applications.submitted_at DESC"
	case "status":
		return "applications.status ASC"
	case "name":
		return "applicants.full_name ASC"
	default:
		return "applications.submitted_at DESC"
	}
}
