package ports

import (
	"context"

	"github.com/edusphere/elearning-api/internal/core/domain"
)

// EnrollmentRepository defines persistence for enrollments. Create must map
// the (user_id, course_id) unique index violation to domain.ErrAlreadyEnrolled
// so racing creation paths (client confirmation vs. webhook) converge on the
// single existing row.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error)
}
