package domain

import (
	"strings"
	"time"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
	ProviderGitHub      = "github"
)

// User is the canonical identity record. A user is created either through
// credentials registration (password hash present) or on first OAuth sign-in
// (no password until one is set up explicitly). Email is globally unique.
type User struct {
	ID             string            `json:"id"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	LegacyName     string            `json:"-"` // single name field on pre-migration records
	Email          string            `json:"email"`
	PasswordHash   string            `json:"-"`
	Role           string            `json:"role"`
	Provider       string            `json:"provider"`
	ProfilePicture string            `json:"profile_picture,omitempty"`
	Phone          string            `json:"phone,omitempty"`
	Bio            string            `json:"bio,omitempty"`
	SocialMedia    map[string]string `json:"social_media,omitempty"`
	HasPassword    bool              `json:"has_password"`
	EmailVerified  *time.Time        `json:"email_verified,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// DisplayName prefers the split first/last name over the legacy single name field.
func (u *User) DisplayName() string {
	if u.FirstName != "" || u.LastName != "" {
		return strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	return u.LegacyName
}

// NormalizeRole lower-cases a stored role and defaults empty or unknown values to student.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleInstructor:
		return RoleInstructor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleStudent
	}
}

// ValidProvider reports whether p names a supported OAuth provider.
func ValidProvider(p string) bool {
	return p == ProviderGoogle || p == ProviderGitHub
}

// SplitFullName breaks a provider's single full-name field into first and last
// name: the first whitespace-delimited token is the first name, the remainder
// (possibly empty) is the last name.
func SplitFullName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
