package ports

import (
	"context"

	"github.com/edusphere/elearning-api/internal/core/domain"
)

// EnrollInput carries everything needed to create (or idempotently replay) an
// enrollment. Amount is in the gateway's minor currency units; zero or IsFree
// selects the free method.
type EnrollInput struct {
	CourseID        string
	UserID          string
	PaymentIntentID string
	Amount          int64
	Currency        string
	IsFree          bool
}

// EnrollResult reports the enrollment and whether it already existed.
type EnrollResult struct {
	Enrollment      *domain.Enrollment
	AlreadyEnrolled bool
}

// EnrollmentService is the single place enrollment rows are created. Enroll is
// idempotent on (user, course): a repeat call returns the existing record as
// success.
type EnrollmentService interface {
	Enroll(ctx context.Context, in EnrollInput) (*EnrollResult, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error)
}
