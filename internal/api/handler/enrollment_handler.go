package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusphere/elearning-api/internal/api/middleware"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

// EnrollmentHandler handles enrollment creation and listing.
type EnrollmentHandler struct {
	service ports.EnrollmentService
}

func NewEnrollmentHandler(service ports.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// Enroll creates an enrollment, or replays the existing one as success. The
// free path calls this directly with a zero amount and no intent id; the paid
// path calls it after gateway confirmation.
//
// @Summary      Enroll a user in a course
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      enrollRequest  true  "Enrollment details"
// @Success      200   {object}  enrollResponse
// @Success      201   {object}  enrollResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/enrollments [post]
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	var req enrollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Enroll(c.Request().Context(), ports.EnrollInput{
		CourseID:        req.CourseID,
		UserID:          req.UserID,
		PaymentIntentID: req.PaymentIntentID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		IsFree:          req.IsFree,
	})
	if err != nil {
		return err
	}

	if result.AlreadyEnrolled {
		return c.JSON(http.StatusOK, enrollResponse{
			Success:    true,
			Message:    "Already enrolled",
			Enrollment: result.Enrollment,
		})
	}

	return c.JSON(http.StatusCreated, enrollResponse{
		Success:    true,
		Message:    "Enrollment created successfully",
		Enrollment: result.Enrollment,
	})
}

// ListMine returns the authenticated user's enrollments.
//
// @Summary      List my enrollments
// @Tags         enrollments
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  listEnrollmentsResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/enrollments [get]
func (h *EnrollmentHandler) ListMine(c echo.Context) error {
	claims := middleware.SessionClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	enrollments, err := h.service.ListByUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listEnrollmentsResponse{Enrollments: enrollments})
}
