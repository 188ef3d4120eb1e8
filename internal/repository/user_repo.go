package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// UserRepository exposes persistence helpers for platform users and their
// student profiles.
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetStudent(ctx context.Context, id uint) error
	UpsertStudentProfile(ctx context.Context, userID uint, fullName string) error
	GetStudentProfile(ctx context.Context, userID uint) (models.StudentProfile, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &userRepository{db: tx}
}

// FindByEmail looks up a user by exact email. Callers normalize first.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// SetStudent widens the student flag without touching any other column.
func (r *userRepository) SetStudent(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_student", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpsertStudentProfile inserts or refreshes the profile's full name only,
// leaving any other profile columns untouched on conflict.
func (r *userRepository) UpsertStudentProfile(ctx context.Context, userID uint, fullName string) error {
	profile := models.StudentProfile{UserID: userID, FullName: fullName}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "updated_at"}),
	}).Create(&profile).Error
}

func (r *userRepository) GetStudentProfile(ctx context.Context, userID uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}
