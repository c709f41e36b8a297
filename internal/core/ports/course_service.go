package ports

import (
	"context"

	"github.com/edusphere/elearning-api/internal/core/domain"
)

// CourseService exposes the catalog projection used by checkout.
type CourseService interface {
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
}
