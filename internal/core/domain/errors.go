package domain

import "errors"

var (
	ErrMissingFields      = errors.New("required fields are missing")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoPasswordSet is returned when a credential sign-in matches a user that
	// has no password hash (OAuth-only account). It must stay distinguishable
	// from ErrInvalidCredentials so the client can suggest OAuth sign-in.
	ErrNoPasswordSet = errors.New("no password set for this account")

	ErrPasswordAlreadySet = errors.New("password already set")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")

	ErrCourseNotFound = errors.New("course not found")

	// ErrAlreadyEnrolled is the repository's duplicate-key signal for the
	// (user, course) unique index. The service treats it as success-no-op.
	ErrAlreadyEnrolled    = errors.New("enrollment already exists")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrGateway          = errors.New("payment gateway error")
	ErrInvalidSignature = errors.New("webhook signature verification failed")

	ErrForbidden = errors.New("access forbidden")
)
