package ports

import "context"

// SessionClaims is the decoded snapshot of user state carried by a session
// token. HasPassword is a cached value; it is re-read from the user store on
// every refresh because password setup can happen mid-session.
type SessionClaims struct {
	UserID         string
	Email          string
	FirstName      string
	LastName       string
	LegacyName     string
	Role           string
	Provider       string
	ProfilePicture string
	Phone          string
	Bio            string
	SocialMedia    map[string]string
	HasPassword    bool
}

// Session is the externally visible session shape projected from claims.
// ProfilePicture and Image carry the same value for client compatibility.
type Session struct {
	ID             string            `json:"id"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Role           string            `json:"role"`
	ProfilePicture string            `json:"profile_picture,omitempty"`
	Image          string            `json:"image,omitempty"`
	Phone          string            `json:"phone,omitempty"`
	Bio            string            `json:"bio,omitempty"`
	SocialMedia    map[string]string `json:"social_media,omitempty"`
	Provider       string            `json:"provider"`
	HasPassword    bool              `json:"has_password"`
}

// TokenService issues, refreshes, and projects signed session tokens.
type TokenService interface {
	Issue(identity *Identity, provider string) (string, error)
	Decode(raw string) (*SessionClaims, error)
	// Refresh re-validates a token, corrects the cached HasPassword from the
	// user store, and returns a renewed token with the updated claims.
	Refresh(ctx context.Context, raw string) (string, *SessionClaims, error)
	Project(claims *SessionClaims) *Session
}
