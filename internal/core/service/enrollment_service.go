package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/edusphere/elearning-api/internal/api/metrics"
	"github.com/edusphere/elearning-api/internal/core/domain"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

// EnrollmentService owns enrollment creation. Both the client-confirmation
// path and the webhook path call Enroll; the (user, course) unique index makes
// their race converge on a single row.
type EnrollmentService struct {
	repo ports.EnrollmentRepository
	log  zerolog.Logger
}

func NewEnrollmentService(repo ports.EnrollmentRepository, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{repo: repo, log: log}
}

// Enroll creates an enrollment for (user, course), or returns the existing one
// as success when the pair is already enrolled. Duplicate attempts are never
// an error.
func (s *EnrollmentService) Enroll(ctx context.Context, in ports.EnrollInput) (*ports.EnrollResult, error) {
	if in.CourseID == "" || in.UserID == "" {
		return nil, domain.ErrMissingFields
	}

	existing, err := s.repo.FindByUserAndCourse(ctx, in.UserID, in.CourseID)
	if err == nil {
		metrics.EnrollmentsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Info().Str("user_id", in.UserID).Str("course_id", in.CourseID).Msg("already enrolled, replaying existing record")
		return &ports.EnrollResult{Enrollment: existing, AlreadyEnrolled: true}, nil
	}
	if !errors.Is(err, domain.ErrAlreadyEnrolled) && !isNotFound(err) {
		return nil, err
	}

	method := domain.MethodExternalPayment
	if in.IsFree || in.Amount == 0 {
		method = domain.MethodFree
	}

	enrollment := &domain.Enrollment{
		UserID:          in.UserID,
		CourseID:        in.CourseID,
		PaymentIntentID: in.PaymentIntentID,
		EnrolledAt:      time.Now().UTC(),
		Status:          domain.EnrollmentStatusActive,
		Method:          method,
	}

	created, err := s.repo.Create(ctx, enrollment)
	if errors.Is(err, domain.ErrAlreadyEnrolled) {
		// Lost the check-then-act race (for example a duplicate webhook
		// delivery); the unique index already holds the winning row.
		metrics.EnrollmentsDedupTotal.WithLabelValues("hit").Inc()
		existing, ferr := s.repo.FindByUserAndCourse(ctx, in.UserID, in.CourseID)
		if ferr != nil {
			return nil, ferr
		}
		return &ports.EnrollResult{Enrollment: existing, AlreadyEnrolled: true}, nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("user_id", in.UserID).Str("course_id", in.CourseID).Msg("failed to create enrollment")
		return nil, err
	}

	metrics.EnrollmentsDedupTotal.WithLabelValues("miss").Inc()
	metrics.EnrollmentsCreatedTotal.WithLabelValues(method).Inc()
	s.log.Info().
		Str("user_id", in.UserID).
		Str("course_id", in.CourseID).
		Str("method", method).
		Str("payment_intent_id", in.PaymentIntentID).
		Msg("enrollment created")

	return &ports.EnrollResult{Enrollment: created}, nil
}

// ListByUser returns a user's enrollments for the account page.
func (s *EnrollmentService) ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	if userID == "" {
		return nil, domain.ErrMissingFields
	}
	return s.repo.FindByUser(ctx, userID)
}

// isNotFound treats the repository's empty-result as "no enrollment yet".
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrEnrollmentNotFound)
}
