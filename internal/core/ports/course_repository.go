package ports

import (
	"context"

	"github.com/edusphere/elearning-api/internal/core/domain"
)

// CourseRepository exposes catalog lookups needed by checkout and enrollment.
type CourseRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Course, error)
}
