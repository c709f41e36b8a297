package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusphere/elearning-api/internal/core/ports"
)

// CourseHandler serves the catalog projection used by checkout.
type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// Get handles GET /v1/courses/:id.
//
// @Summary      Get a course by id
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  domain.Course
// @Failure      404  {object}  errorResponse
// @Router       /v1/courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	course, err := h.service.GetCourse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}
