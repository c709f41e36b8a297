package handler

import "github.com/edusphere/elearning-api/internal/core/domain"

type enrollRequest struct {
	CourseID        string `json:"course_id" validate:"required"`
	UserID          string `json:"user_id"   validate:"required"`
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	IsFree          bool   `json:"is_free"`
}

type enrollResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Enrollment *domain.Enrollment `json:"enrollment"`
}

type listEnrollmentsResponse struct {
	Enrollments []*domain.Enrollment `json:"enrollments"`
}
