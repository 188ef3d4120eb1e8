package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// ApplicantRepository provides access to applicant person records.
type ApplicantRepository interface {
	WithTx(tx *gorm.DB) ApplicantRepository
	Create(ctx context.Context, applicant *models.Applicant) error
	GetByID(ctx context.Context, id uint) (models.Applicant, error)
}

type applicantRepository struct {
	db *gorm.DB
}

// NewApplicantRepository constructs an applicant repository.
func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

func (r *applicantRepository) WithTx(tx *gorm.DB) ApplicantRepository {
	if tx == nil {
		return r
	}
	return &applicantRepository{db: tx}
}

func (r *applicantRepository) Create(ctx context.Context, applicant *models.Applicant) error {
	return r.db.WithContext(ctx).Create(applicant).Error
}

func (r *applicantRepository) GetByID(ctx context.Context, id uint) (models.Applicant, error) {
	var applicant models.Applicant
	if err := r.db.WithContext(ctx).First(&applicant, id).Error; err != nil {
		return models.Applicant{}, err
	}

	return applicant, nil
}
