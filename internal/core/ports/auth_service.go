package ports

import (
	"context"

	"github.com/edusphere/elearning-api/internal/core/domain"
)

// RegisterInput carries a credentials registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string // optional; defaults to student
}

// OAuthProfile is the verified profile an OAuth provider returns on callback.
// The provider's cryptographic handshake is out of scope; reconciliation is a
// pure function of (provider, profile) over the user store.
type OAuthProfile struct {
	Name  string
	Email string
	Image string
}

// Identity is the normalized result of a successful sign-in, shared by the
// credentials and OAuth paths.
type Identity struct {
	ID             string
	FirstName      string
	LastName       string
	Name           string // computed display name
	Email          string
	Role           string
	ProfilePicture string
	Phone          string
	Bio            string
	SocialMedia    map[string]string
	HasPassword    bool
}

// MigrationReport summarizes a legacy-schema backfill run.
type MigrationReport struct {
	LegacyUsersMigrated int `json:"legacy_users_migrated"`
	Failed              int `json:"failed"`
}

// AuthService implements identity reconciliation: registration, credential
// authentication, OAuth account linking/creation, password lifecycle, and the
// legacy-record backfill.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	AuthenticateCredentials(ctx context.Context, email, password string) (*Identity, error)
	ReconcileOAuthIdentity(ctx context.Context, provider string, profile OAuthProfile) (*Identity, error)
	SetupPassword(ctx context.Context, email, password, confirm string) error
	ChangePassword(ctx context.Context, email, current, password, confirm string) error
	MigrateLegacyUsers(ctx context.Context) (*MigrationReport, error)
}
