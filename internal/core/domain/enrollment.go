package domain

import "time"

const (
	EnrollmentStatusActive = "active"

	MethodFree            = "free"
	MethodExternalPayment = "external-payment"
)

// Enrollment is the durable join record between a user and a course. At most
// one enrollment exists per (user, course) pair; the unique compound index on
// the collection is the authoritative guard, the application-level existence
// check is only an early return.
type Enrollment struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	CourseID        string     `json:"course_id"`
	PaymentIntentID string     `json:"payment_intent_id,omitempty"`
	EnrolledAt      time.Time  `json:"enrollment_date"`
	Status          string     `json:"status"`
	Method          string     `json:"method"`
	CompletedAt     *time.Time `json:"completion_date,omitempty"`
}
