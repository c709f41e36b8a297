package handler

import "github.com/edusphere/elearning-api/internal/core/ports"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Role      string `json:"role"       validate:"omitempty,oneof=student instructor admin"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    *publicUser `json:"user"`
}

// publicUser never carries the password hash.
type publicUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type oauthCallbackRequest struct {
	Provider string `json:"provider" validate:"required,oneof=google github"`
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"required,email"`
	Image    string `json:"image"`
}

type sessionResponse struct {
	Token   string         `json:"token"`
	Session *ports.Session `json:"session"`
}

type setupPasswordRequest struct {
	Password        string `json:"password"         validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}
