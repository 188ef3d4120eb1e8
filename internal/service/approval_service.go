package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/normalize"
	"github.com/noah-isme/admissions-go-api/internal/observability"
	"github.com/noah-isme/admissions-go-api/internal/password"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

// Domain errors for the approval pipeline. Handlers map these to transport
// status codes; anything else propagates unchanged.
var (
	ErrApplicationNotFound        = errors.New("application not found")
	ErrApplicationAlreadyReviewed = errors.New("application already reviewed")
	ErrApplicantEmailRequired     = errors.New("applicant email is required for approval")
	ErrCohortCapacityExceeded     = errors.New("cohort capacity exceeded")
)

// StatsInvalidator drops cached cohort seat stats after a write changes
// occupancy. CohortService satisfies it; nil disables invalidation.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context, id uint)
}

// ApprovalService transitions pending applications into approved or
// rejected, creating the platform user and enrollment on approval.
type ApprovalService interface {
	Approve(ctx context.Context, applicationID, reviewerID uint) (dto.ApprovalResult, error)
	Reject(ctx context.Context, applicationID, reviewerID uint, reason string) (dto.RejectionResult, error)
}

type approvalService struct {
	db           *gorm.DB
	applications repository.ApplicationRepository
	cohorts      repository.CohortRepository
	users        repository.UserRepository
	enrollments  repository.EnrollmentRepository
	audit        AuditService
	stats        StatsInvalidator
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewApprovalService constructs the approval service.
func NewApprovalService(
	db *gorm.DB,
	applications repository.ApplicationRepository,
	cohorts repository.CohortRepository,
	users repository.UserRepository,
	enrollments repository.EnrollmentRepository,
	audit AuditService,
	stats StatsInvalidator,
	logger zerolog.Logger,
) ApprovalService {
	return &approvalService{
		db:           db,
		applications: applications,
		cohorts:      cohorts,
		users:        users,
		enrollments:  enrollments,
		audit:        audit,
		stats:        stats,
		logger:       logger.With().Str("component", "approval_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/admissions-go-api/internal/service/approval"),
		now:          time.Now,
	}
}

// Approve runs the full approval pipeline inside one transaction: state and
// capacity guards, find-or-create user, profile upsert, enrollment insert,
// conditional status flip and two audit entries. Any failure rolls back
// every write.
func (s *approvalService) Approve(ctx context.Context, applicationID, reviewerID uint) (dto.ApprovalResult, error) {
	attrs := []attribute.KeyValue{
		attribute.Int("application.id", int(applicationID)),
		attribute.Int("reviewer.id", int(reviewerID)),
	}
	ctx, span := s.tracer.Start(ctx, "admissions.approve", trace.WithAttributes(attrs...))
	defer span.End()

	var result dto.ApprovalResult
	var recorded []dto.AuditEntryResponse
	var cohortID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applications := s.applications.WithTx(tx)
		cohorts := s.cohorts.WithTx(tx)
		users := s.users.WithTx(tx)
		enrollments := s.enrollments.WithTx(tx)
		recorder := s.audit.WithTx(tx)

		application, err := applications.GetByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		if application.Status != models.ApplicationStatusPending {
			return ErrApplicationAlreadyReviewed
		}

		email := normalize.Email(application.Applicant.Email)
		if email == "" {
			return ErrApplicantEmailRequired
		}

		// Lock the cohort row before counting so concurrent approvals for a
		// near-full cohort serialize on the capacity check.
		cohort, err := cohorts.GetForUpdate(ctx, application.CohortID)
		if err != nil {
			return err
		}
		cohortID = cohort.ID

		if cohort.Capacity != nil {
			occupied, err := enrollments.CountActiveByCohort(ctx, cohort.ID)
			if err != nil {
				return err
			}
			if occupied >= int64(*cohort.Capacity) {
				return ErrCohortCapacityExceeded
			}
		}

		user, generated, err := s.findOrCreateStudent(ctx, users, email, application.Applicant)
		if err != nil {
			return err
		}

		if err := users.UpsertStudentProfile(ctx, user.ID, application.Applicant.FullName); err != nil {
			return err
		}

		enrollment := models.Enrollment{
			UserID:        user.ID,
			CohortID:      cohort.ID,
			ApplicationID: application.ID,
			Status:        models.EnrollmentStatusActive,
		}
		if err := enrollments.Create(ctx, &enrollment); err != nil {
			return err
		}

		affected, err := applications.MarkReviewed(ctx, application.ID, models.ApplicationStatusApproved, reviewerID, s.now().UTC())
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrApplicationAlreadyReviewed
		}

		metadata := map[string]interface{}{
			"cohort_id":       cohort.ID,
			"student_user_id": user.ID,
		}

		approvalEntry, err := recorder.Record(ctx, AuditEntry{
			ActorUserID: reviewerID,
			Action:      "application.approved",
			EntityType:  "application",
			EntityID:    &application.ID,
			Message:     fmt.Sprintf("application %d approved", application.ID),
			Metadata:    metadata,
			Title:       "Application approved",
			Body:        fmt.Sprintf("%s was approved into %s.", application.Applicant.FullName, cohort.Name),
		})
		if err != nil {
			return err
		}

		enrollmentEntry, err := recorder.Record(ctx, AuditEntry{
			ActorUserID: reviewerID,
			Action:      "enrollment.created",
			EntityType:  "enrollment",
			EntityID:    &enrollment.ID,
			Message:     fmt.Sprintf("enrollment %d created", enrollment.ID),
			Metadata:    metadata,
			Title:       "Enrollment created",
			Body:        fmt.Sprintf("%s now holds a seat in %s.", application.Applicant.FullName, cohort.Name),
		})
		if err != nil {
			return err
		}

		recorded = append(recorded, approvalEntry, enrollmentEntry)
		result = dto.ApprovalResult{
			ApplicationID:     application.ID,
			Status:            models.ApplicationStatusApproved,
			StudentUserID:     user.ID,
			EnrollmentID:      enrollment.ID,
			GeneratedPassword: generated,
		}
		return nil
	})
	if err != nil {
		if !isApprovalDomainError(err) {
			span.RecordError(err)
			s.logger.Error().Err(err).Uint("application_id", applicationID).Msg("approval transaction failed")
		}
		return dto.ApprovalResult{}, err
	}

	// Entries are durable once the transaction commits; only then do they
	// reach live feed subscribers.
	for _, entry := range recorded {
		s.audit.Publish(entry)
	}

	// The new enrollment changes seat occupancy, so the cached stats for the
	// cohort are stale the moment the transaction commits.
	if s.stats != nil {
		s.stats.InvalidateStats(ctx, cohortID)
	}

	observability.ApprovalDecisionsTotal().WithLabelValues(models.ApplicationStatusApproved).Inc()
	s.logger.Info().
		Uint("application_id", result.ApplicationID).
		Uint("student_user_id", result.StudentUserID).
		Uint("enrollment_id", result.EnrollmentID).
		Bool("new_user", result.GeneratedPassword != nil).
		Msg("application approved")

	return result, nil
}

// Reject performs a single conditional status flip. No dependent rows are
// created, so it does not need the approval transaction.
func (s *approvalService) Reject(ctx context.Context, applicationID, reviewerID uint, reason string) (dto.RejectionResult, error) {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RejectionResult{}, ErrApplicationNotFound
		}
		return dto.RejectionResult{}, err
	}

	affected, err := s.applications.MarkReviewed(ctx, application.ID, models.ApplicationStatusRejected, reviewerID, s.now().UTC())
	if err != nil {
		return dto.RejectionResult{}, err
	}
	if affected == 0 {
		return dto.RejectionResult{}, ErrApplicationAlreadyReviewed
	}

	metadata := map[string]interface{}{
		"cohort_id": application.CohortID,
	}
	if reason != "" {
		metadata["reason"] = reason
	}

	if _, err := s.audit.Record(ctx, AuditEntry{
		ActorUserID: reviewerID,
		Action:      "application.rejected",
		EntityType:  "application",
		EntityID:    &application.ID,
		Message:     fmt.Sprintf("application %d rejected", application.ID),
		Metadata:    metadata,
		Title:       "Application rejected",
		Body:        fmt.Sprintf("The application from %s was rejected.", application.Applicant.FullName),
	}); err != nil {
		s.logger.Error().Err(err).Uint("application_id", applicationID).Msg("failed to record rejection audit entry")
	}

	observability.ApprovalDecisionsTotal().WithLabelValues(models.ApplicationStatusRejected).Inc()

	return dto.RejectionResult{
		ApplicationID: application.ID,
		Status:        models.ApplicationStatusRejected,
	}, nil
}

// findOrCreateStudent reuses an existing user by normalized email, widening
// the student flag when needed, or creates one with a generated credential.
// The plaintext is returned exactly once for delivery and never stored.
func (s *approvalService) findOrCreateStudent(ctx context.Context, users repository.UserRepository, email string, applicant models.Applicant) (models.User, *string, error) {
	user, err := users.FindByEmail(ctx, email)
	if err == nil {
		if !user.IsStudent {
			if err := users.SetStudent(ctx, user.ID); err != nil {
				return models.User{}, nil, err
			}
			user.IsStudent = true
		}
		return user, nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, nil, err
	}

	plaintext, err := password.Generate()
	if err != nil {
		return models.User{}, nil, err
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return models.User{}, nil, err
	}

	phone := ""
	if normalized := normalize.Phone(applicant.Phone); normalized != nil {
		phone = *normalized
	}

	user = models.User{
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		IsStudent:    true,
	}
	if err := users.Create(ctx, &user); err != nil {
		return models.User{}, nil, err
	}

	return user, &plaintext, nil
}

func isApprovalDomainError(err error) bool {
	return errors.Is(err, ErrApplicationNotFound) ||
		errors.Is(err, ErrApplicationAlreadyReviewed) ||
		errors.Is(err, ErrApplicantEmailRequired) ||
		errors.Is(err, ErrCohortCapacityExceeded)
}
