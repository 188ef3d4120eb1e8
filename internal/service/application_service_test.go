package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

func newApplicationService(t *testing.T, db *gorm.DB) ApplicationService {
	t.Helper()

	return NewApplicationService(
		db,
		repository.NewApplicationRepository(db),
		repository.NewApplicantRepository(db),
		repository.NewCohortRepository(db),
		testValidator(),
		testLogger(),
	)
}

func TestCreateApplicationNormalizesContact(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)
	cohort := seedCohort(t, db, nil)

	response, err := svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: cohort.ID,
		FullName: "Helena Costa",
		Email:    "  Helena.Costa@Example.COM ",
		Phone:    "+55 (11) 96666-2222",
	})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusPending, response.Status)

	var stored models.Application
	require.NoError(t, db.First(&stored, response.ID).Error)
	require.NotNil(t, stored.EmailNorm)
	require.Equal(t, "helena.costa@example.com", *stored.EmailNorm)
	require.NotNil(t, stored.PhoneNorm)
	require.Equal(t, "+5511966662222", *stored.PhoneNorm)
}

func TestCreateApplicationDuplicateEmailDifferentCasing(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)
	cohort := seedCohort(t, db, nil)

	_, err := svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: cohort.ID,
		FullName: "Igor Lima",
		Email:    "igor@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: cohort.ID,
		FullName: "Igor Lima",
		Email:    "IGOR@Example.com",
	})
	require.ErrorIs(t, err, ErrDuplicateApplication)
}

func TestCreateApplicationSameEmailDifferentCohorts(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)
	first := seedCohort(t, db, nil)
	second := seedCohort(t, db, nil)

	_, err := svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: first.ID,
		FullName: "Joana Reis",
		Email:    "joana@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: second.ID,
		FullName: "Joana Reis",
		Email:    "joana@example.com",
	})
	require.NoError(t, err)
}

func TestCreateApplicationPhoneOnlySubmissions(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)
	cohort := seedCohort(t, db, nil)

	_, err := svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: cohort.ID,
		FullName: "Kaue Nunes",
		Phone:    "+55 11 95555-3333",
	})
	require.NoError(t, err)

	// Same digits, different formatting, still a duplicate.
	_, err = svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: cohort.ID,
		FullName: "Kaue Nunes",
		Phone:    "5511955553333",
	})
	require.ErrorIs(t, err, ErrDuplicateApplication)
}

func TestCreateApplicationDistinctPhoneOnlySubmissions(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)
	cohort := seedCohort(t, db, nil)

	first, err := svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: cohort.ID,
		FullName: "Olga Matos",
		Phone:    "+55 11 93333-0001",
	})
	require.NoError(t, err)

	// Two email-less applicants with different phones both get a seat in
	// line; the missing email must not register as a shared dedup key.
	second, err := svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: cohort.ID,
		FullName: "Pedro Matos",
		Phone:    "+55 21 92222-0002",
	})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	var stored models.Application
	require.NoError(t, db.First(&stored, second.ID).Error)
	require.Nil(t, stored.EmailNorm)
	require.NotNil(t, stored.PhoneNorm)
}

func TestCreateApplicationRequiresContact(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)
	cohort := seedCohort(t, db, nil)

	_, err := svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: cohort.ID,
		FullName: "Luna Dias",
		Phone:    "+",
	})
	require.ErrorIs(t, err, ErrContactRequired)
}

func TestCreateApplicationUnknownCohort(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)

	_, err := svc.Create(context.Background(), dto.ApplicationCreateRequest{
		CohortID: 777,
		FullName: "Mario Paz",
		Email:    "mario@example.com",
	})
	require.ErrorIs(t, err, ErrCohortNotFound)
}

func TestListApplicationsFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)
	cohort := seedCohort(t, db, nil)
	other := seedCohort(t, db, nil)

	seedApplication(t, db, cohort.ID, "Nina Braga", "nina@example.com", "")
	seedApplication(t, db, cohort.ID, "Otto Braga", "otto@example.com", "")
	seedApplication(t, db, other.ID, "Nina Braga", "nina@example.com", "")

	response, err := svc.List(context.Background(), dto.ApplicationListRequest{
		CohortID: cohort.ID,
		Search:   "braga",
		Page:     1,
		PageSize: 1,
	})
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	require.EqualValues(t, 2, response.Pagination.TotalItems)
	require.Equal(t, 2, response.Pagination.TotalPages)

	byStatus, err := svc.List(context.Background(), dto.ApplicationListRequest{
		Status:   models.ApplicationStatusApproved,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Empty(t, byStatus.Items)
}

func TestImportRoster(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)
	cohort := seedCohort(t, db, nil)

	csvBody := strings.Join([]string{
		"full_name,email,phone",
		"Paula Brito,paula@example.com,+55 11 94444-0001",
		"Rafa Brito,rafa@example.com,",
		"Paula Brito,PAULA@example.com,",
		"X,not-an-email,",
	}, "\n")

	report, err := svc.Import(context.Background(), cohort.ID, strings.NewReader(csvBody), 100)
	require.NoError(t, err)
	require.Equal(t, 4, report.Total)
	require.Equal(t, 2, report.Created)
	require.Equal(t, 1, report.Duplicates)
	require.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	require.Equal(t, 5, report.Errors[0].Row)
}

func TestImportRosterEnforcesRowLimit(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)
	cohort := seedCohort(t, db, nil)

	csvBody := strings.Join([]string{
		"full_name,email",
		"A Um,a1@example.com",
		"A Dois,a2@example.com",
		"A Tres,a3@example.com",
	}, "\n")

	_, err := svc.Import(context.Background(), cohort.ID, strings.NewReader(csvBody), 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "row limit")
}

func TestImportRosterUnknownCohort(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(t, db)

	_, err := svc.Import(context.Background(), 999, strings.NewReader("full_name,email\nZe Ruela,ze@example.com\n"), 10)
	require.ErrorIs(t, err, ErrCohortNotFound)
}
