package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/normalize"
)

var testDBCounter atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Program{},
		&models.Cohort{},
		&models.Applicant{},
		&models.Application{},
		&models.User{},
		&models.StudentProfile{},
		&models.Enrollment{},
		&models.AdminActionLog{},
		&models.Announcement{},
		&models.Page{},
		&models.OutboundMessage{},
	))

	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func seedCohort(t *testing.T, db *gorm.DB, capacity *int) models.Cohort {
	t.Helper()

	program := models.Program{Name: "Backend Engineering"}
	require.NoError(t, db.Create(&program).Error)

	cohort := models.Cohort{
		ProgramID: program.ID,
		Name:      "Backend 2026A",
		Capacity:  capacity,
		StartsAt:  time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&cohort).Error)

	return cohort
}

func seedApplication(t *testing.T, db *gorm.DB, cohortID uint, fullName, email, phone string) models.Application {
	t.Helper()

	applicant := models.Applicant{FullName: fullName, Email: email, Phone: phone}
	require.NoError(t, db.Create(&applicant).Error)

	application := models.Application{
		CohortID:    cohortID,
		ApplicantID: applicant.ID,
		EmailNorm:   normalize.EmailKey(email),
		PhoneNorm:   normalize.Phone(phone),
		Status:      models.ApplicationStatusPending,
		SubmittedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&application).Error)
	application.Applicant = applicant

	return application
}

func intPtr(v int) *int {
	return &v
}
