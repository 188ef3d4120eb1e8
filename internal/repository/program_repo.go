package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// ProgramRepository exposes persistence helpers for programs.
type ProgramRepository interface {
	Create(ctx context.Context, program *models.Program) error
	GetByID(ctx context.Context, id uint) (models.Program, error)
	List(ctx context.Context) ([]models.Program, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Program, error)
	Delete(ctx context.Context, id uint) error
}

type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository constructs the program repository.
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Create(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *programRepository) GetByID(ctx context.Context, id uint) (models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).First(&program, id).Error; err != nil {
		return models.Program{}, err
	}

	return program, nil
}

func (r *programRepository) List(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&programs).Error; err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *programRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Program, error) {
	result := r.db.WithContext(ctx).Model(&models.Program{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return models.Program{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Program{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *programRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Program{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
