package ports

import (
	"context"
	"time"

	"github.com/edusphere/elearning-api/internal/core/domain"
)

// UserUpdate carries a partial update; nil pointers leave fields untouched.
// ClearLegacyName removes the pre-migration single name field.
type UserUpdate struct {
	FirstName       *string
	LastName        *string
	PasswordHash    *string
	HasPassword     *bool
	ProfilePicture  *string
	Provider        *string
	EmailVerified   *time.Time
	ClearLegacyName bool
}

// UserRepository defines persistence for user identity records. Create must
// surface domain.ErrUserExists on the unique email index so the check-then-act
// in registration and OAuth reconciliation is race-safe.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	UpdateByID(ctx context.Context, id string, upd UserUpdate) error
	// FindLegacyNamed returns records still carrying the single name field
	// without a split first name (migration backfill input).
	FindLegacyNamed(ctx context.Context) ([]*domain.User, error)
}
