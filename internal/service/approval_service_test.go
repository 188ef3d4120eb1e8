package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/password"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

func newApprovalService(t *testing.T, db *gorm.DB) ApprovalService {
	t.Helper()

	return newApprovalServiceWithStats(t, db, nil)
}

func newApprovalServiceWithStats(t *testing.T, db *gorm.DB, stats StatsInvalidator) ApprovalService {
	t.Helper()

	audit := NewAuditService(repository.NewAuditLogRepository(db), testLogger())
	return NewApprovalService(
		db,
		repository.NewApplicationRepository(db),
		repository.NewCohortRepository(db),
		repository.NewUserRepository(db),
		repository.NewEnrollmentRepository(db),
		audit,
		stats,
		testLogger(),
	)
}

func TestApproveCreatesUserProfileAndEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)
	cohort := seedCohort(t, db, intPtr(10))
	application := seedApplication(t, db, cohort.ID, "Carla Mendes", "Carla.Mendes@Example.com", "+55 11 98888-1111")

	result, err := svc.Approve(context.Background(), application.ID, 42)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, result.Status)
	require.NotZero(t, result.StudentUserID)
	require.NotZero(t, result.EnrollmentID)
	require.NotNil(t, result.GeneratedPassword)
	require.Len(t, *result.GeneratedPassword, password.GeneratedLength)

	var user models.User
	require.NoError(t, db.First(&user, result.StudentUserID).Error)
	require.Equal(t, "carla.mendes@example.com", user.Email)
	require.Equal(t, "+5511988881111", user.Phone)
	require.True(t, user.IsStudent)
	require.NotEmpty(t, user.PasswordHash)
	require.NotEqual(t, *result.GeneratedPassword, user.PasswordHash)
	require.True(t, password.Verify(user.PasswordHash, *result.GeneratedPassword))

	var profile models.StudentProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	require.Equal(t, "Carla Mendes", profile.FullName)

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, result.EnrollmentID).Error)
	require.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	require.Equal(t, cohort.ID, enrollment.CohortID)
	require.Equal(t, application.ID, enrollment.ApplicationID)

	var reviewed models.Application
	require.NoError(t, db.First(&reviewed, application.ID).Error)
	require.Equal(t, models.ApplicationStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	require.Equal(t, uint(42), *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)

	var auditCount int64
	require.NoError(t, db.Model(&models.AdminActionLog{}).Count(&auditCount).Error)
	require.EqualValues(t, 2, auditCount)
}

func TestApproveReusesExistingUserWithoutNewPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)
	cohort := seedCohort(t, db, nil)

	existing := models.User{
		Email:        "dario@example.com",
		PasswordHash: "existing-hash",
		IsStudent:    false,
		IsAdmin:      true,
	}
	require.NoError(t, db.Create(&existing).Error)

	application := seedApplication(t, db, cohort.ID, "Dario Silva", "DARIO@example.com", "")

	result, err := svc.Approve(context.Background(), application.ID, 7)
	require.NoError(t, err)
	require.Equal(t, existing.ID, result.StudentUserID)
	require.Nil(t, result.GeneratedPassword)

	var user models.User
	require.NoError(t, db.First(&user, existing.ID).Error)
	require.True(t, user.IsStudent)
	require.True(t, user.IsAdmin)
	require.Equal(t, "existing-hash", user.PasswordHash)
}

func TestApproveGeneratesDistinctPasswords(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)
	cohort := seedCohort(t, db, nil)

	first := seedApplication(t, db, cohort.ID, "Ana Prado", "ana@example.com", "")
	second := seedApplication(t, db, cohort.ID, "Bruno Prado", "bruno@example.com", "")

	firstResult, err := svc.Approve(context.Background(), first.ID, 1)
	require.NoError(t, err)
	secondResult, err := svc.Approve(context.Background(), second.ID, 1)
	require.NoError(t, err)

	require.NotNil(t, firstResult.GeneratedPassword)
	require.NotNil(t, secondResult.GeneratedPassword)
	require.NotEqual(t, *firstResult.GeneratedPassword, *secondResult.GeneratedPassword)
}

func TestApproveUnknownApplication(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)

	_, err := svc.Approve(context.Background(), 9999, 1)
	require.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestApproveAlreadyReviewedApplication(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)
	cohort := seedCohort(t, db, nil)
	application := seedApplication(t, db, cohort.ID, "Elisa Duarte", "elisa@example.com", "")

	_, err := svc.Approve(context.Background(), application.ID, 1)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), application.ID, 1)
	require.ErrorIs(t, err, ErrApplicationAlreadyReviewed)

	var enrollments int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&enrollments).Error)
	require.EqualValues(t, 1, enrollments)
}

func TestApproveRequiresApplicantEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)
	cohort := seedCohort(t, db, nil)
	application := seedApplication(t, db, cohort.ID, "Sem Email", "", "+55 11 97777-0000")

	_, err := svc.Approve(context.Background(), application.ID, 1)
	require.ErrorIs(t, err, ErrApplicantEmailRequired)

	var reviewed models.Application
	require.NoError(t, db.First(&reviewed, application.ID).Error)
	require.Equal(t, models.ApplicationStatusPending, reviewed.Status)
}

func TestApproveRejectsWhenCohortFull(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)
	cohort := seedCohort(t, db, intPtr(1))

	first := seedApplication(t, db, cohort.ID, "Primeira Vaga", "primeira@example.com", "")
	second := seedApplication(t, db, cohort.ID, "Segunda Vaga", "segunda@example.com", "")

	_, err := svc.Approve(context.Background(), first.ID, 1)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), second.ID, 1)
	require.ErrorIs(t, err, ErrCohortCapacityExceeded)

	// The failed approval must leave no partial writes behind.
	var users int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "segunda@example.com").Count(&users).Error)
	require.Zero(t, users)

	var reviewed models.Application
	require.NoError(t, db.First(&reviewed, second.ID).Error)
	require.Equal(t, models.ApplicationStatusPending, reviewed.Status)
}

func TestApproveInvalidatesCohortStatsCache(t *testing.T) {
	db := newTestDB(t)
	cache := newTestCache(t)
	cohortSvc := NewCohortService(
		repository.NewCohortRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewApplicationRepository(db),
		repository.NewProgramRepository(db),
		cache,
		time.Minute,
		testValidator(),
		testLogger(),
	)
	svc := newApprovalServiceWithStats(t, db, cohortSvc)

	cohort := seedCohort(t, db, intPtr(5))
	application := seedApplication(t, db, cohort.ID, "Iara Campos", "iara@example.com", "")

	// Warm the cache with the pre-approval occupancy.
	_, err := cohortSvc.Stats(context.Background(), cohort.ID)
	require.NoError(t, err)
	warmed, err := cohortSvc.Stats(context.Background(), cohort.ID)
	require.NoError(t, err)
	require.True(t, warmed.CacheHit)
	require.EqualValues(t, 0, warmed.ActiveEnrollments)

	_, err = svc.Approve(context.Background(), application.ID, 1)
	require.NoError(t, err)

	after, err := cohortSvc.Stats(context.Background(), cohort.ID)
	require.NoError(t, err)
	require.False(t, after.CacheHit)
	require.EqualValues(t, 1, after.ActiveEnrollments)
	require.NotNil(t, after.SeatsRemaining)
	require.EqualValues(t, 4, *after.SeatsRemaining)
}

func TestApproveIgnoresInactiveEnrollmentsForCapacity(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)
	cohort := seedCohort(t, db, intPtr(1))

	dropped := models.Enrollment{UserID: 500, CohortID: cohort.ID, ApplicationID: 500, Status: models.EnrollmentStatusDropped}
	require.NoError(t, db.Create(&dropped).Error)

	application := seedApplication(t, db, cohort.ID, "Vaga Livre", "livre@example.com", "")

	_, err := svc.Approve(context.Background(), application.ID, 1)
	require.NoError(t, err)
}

func TestRejectPendingApplication(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)
	cohort := seedCohort(t, db, nil)
	application := seedApplication(t, db, cohort.ID, "Fabio Rocha", "fabio@example.com", "")

	result, err := svc.Reject(context.Background(), application.ID, 3, "incomplete documents")
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusRejected, result.Status)

	var reviewed models.Application
	require.NoError(t, db.First(&reviewed, application.ID).Error)
	require.Equal(t, models.ApplicationStatusRejected, reviewed.Status)

	var entry models.AdminActionLog
	require.NoError(t, db.Where("action = ?", "application.rejected").First(&entry).Error)
	require.Equal(t, uint(3), entry.ActorUserID)
	require.Equal(t, "incomplete documents", entry.Metadata["reason"])

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.Zero(t, users)
}

func TestRejectAlreadyReviewedApplication(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)
	cohort := seedCohort(t, db, nil)
	application := seedApplication(t, db, cohort.ID, "Gina Alves", "gina@example.com", "")

	_, err := svc.Reject(context.Background(), application.ID, 1, "")
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), application.ID, 1, "")
	require.ErrorIs(t, err, ErrApplicationAlreadyReviewed)

	_, err = svc.Approve(context.Background(), application.ID, 1)
	require.ErrorIs(t, err, ErrApplicationAlreadyReviewed)
}

func TestRejectUnknownApplication(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(t, db)

	_, err := svc.Reject(context.Background(), 12345, 1, "")
	require.ErrorIs(t, err, ErrApplicationNotFound)
}
