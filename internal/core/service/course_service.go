package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/edusphere/elearning-api/internal/core/domain"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

// CourseService exposes the catalog projection checkout needs.
type CourseService struct {
	repo ports.CourseRepository
	log  zerolog.Logger
}

func NewCourseService(repo ports.CourseRepository, log zerolog.Logger) *CourseService {
	return &CourseService{repo: repo, log: log}
}

func (s *CourseService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	if id == "" {
		return nil, domain.ErrMissingFields
	}
	return s.repo.FindByID(ctx, id)
}
