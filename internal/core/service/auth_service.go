package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edusphere/elearning-api/internal/api/metrics"
	"github.com/edusphere/elearning-api/internal/core/domain"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements identity reconciliation across the credentials and
// OAuth sign-in paths, plus the password-setup lifecycle.
type AuthService struct {
	users                 ports.UserRepository
	defaultProfilePicture string
	log                   zerolog.Logger
}

func NewAuthService(users ports.UserRepository, defaultProfilePicture string, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, defaultProfilePicture: defaultProfilePicture, log: log}
}

// Register creates a credentials user. The unique email index backs the
// existence check: a concurrent duplicate insert still surfaces ErrUserExists.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, domain.ErrMissingFields
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PasswordHash:   string(hash),
		Role:           domain.NormalizeRole(in.Role),
		Provider:       domain.ProviderCredentials,
		ProfilePicture: s.defaultProfilePicture,
		HasPassword:    true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(domain.ProviderCredentials).Inc()
	s.log.Info().Str("email", created.Email).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// AuthenticateCredentials matches an email/password pair against the store.
// A matched user without a password hash gets ErrNoPasswordSet, never
// ErrInvalidCredentials, so the client can steer the user to OAuth sign-in.
func (s *AuthService) AuthenticateCredentials(ctx context.Context, email, password string) (*ports.Identity, error) {
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(domain.ProviderCredentials, "not_found").Inc()
		return nil, err
	}

	if user.PasswordHash == "" {
		metrics.LoginsTotal.WithLabelValues(domain.ProviderCredentials, "no_password").Inc()
		return nil, domain.ErrNoPasswordSet
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues(domain.ProviderCredentials, "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues(domain.ProviderCredentials, "success").Inc()
	return identityFromUser(user), nil
}

// ReconcileOAuthIdentity maps a verified provider profile to the canonical
// user record, creating one on first sign-in. Repeat invocations for the same
// email are idempotent: uniqueness on email is the guard, and the only writes
// against an existing record are the first-name backfill for legacy rows and
// the profile picture refresh.
func (s *AuthService) ReconcileOAuthIdentity(ctx context.Context, provider string, profile ports.OAuthProfile) (*ports.Identity, error) {
	if !domain.ValidProvider(provider) || profile.Email == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = s.createOAuthUser(ctx, provider, profile)
		if err != nil && errors.Is(err, domain.ErrUserExists) {
			// Lost a race with a concurrent sign-in for the same identity; the
			// other request created the record, use it.
			user, err = s.users.FindByEmail(ctx, profile.Email)
		}
		if err != nil {
			return nil, err
		}
		metrics.LoginsTotal.WithLabelValues(provider, "first_sign_in").Inc()
	case err != nil:
		return nil, err
	default:
		if err := s.repairOAuthUser(ctx, user, profile); err != nil {
			return nil, err
		}
		metrics.LoginsTotal.WithLabelValues(provider, "success").Inc()
	}

	return identityFromUser(user), nil
}

func (s *AuthService) createOAuthUser(ctx context.Context, provider string, profile ports.OAuthProfile) (*domain.User, error) {
	first, last := domain.SplitFullName(profile.Name)
	picture := profile.Image
	if picture == "" {
		picture = s.defaultProfilePicture
	}

	now := time.Now().UTC()
	user := &domain.User{
		FirstName:      first,
		LastName:       last,
		Email:          profile.Email,
		Role:           domain.RoleStudent,
		Provider:       provider,
		ProfilePicture: picture,
		HasPassword:    false,
		EmailVerified:  &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues(provider).Inc()
	s.log.Info().Str("email", created.Email).Str("provider", provider).Msg("oauth user created")
	return created, nil
}

// repairOAuthUser backfills first/last name on legacy records that only carry
// a single name field, and refreshes the profile picture from the provider.
func (s *AuthService) repairOAuthUser(ctx context.Context, user *domain.User, profile ports.OAuthProfile) error {
	upd := ports.UserUpdate{}
	changed := false

	if user.FirstName == "" && profile.Name != "" {
		first, last := domain.SplitFullName(profile.Name)
		upd.FirstName, upd.LastName = &first, &last
		user.FirstName, user.LastName = first, last
		changed = true
	}
	if profile.Image != "" && profile.Image != user.ProfilePicture {
		upd.ProfilePicture = &profile.Image
		user.ProfilePicture = profile.Image
		changed = true
	}
	if !changed {
		return nil
	}
	return s.users.UpdateByID(ctx, user.ID, upd)
}

// SetupPassword moves a user from NoPassword to HasPassword. The transition is
// one-way: once set, only ChangePassword may replace the hash.
func (s *AuthService) SetupPassword(ctx context.Context, email, password, confirm string) error {
	if err := validateNewPassword(password, confirm); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.PasswordHash != "" {
		return domain.ErrPasswordAlreadySet
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	hashStr := string(hash)
	hasPassword := true
	if err := s.users.UpdateByID(ctx, user.ID, ports.UserUpdate{PasswordHash: &hashStr, HasPassword: &hasPassword}); err != nil {
		return err
	}

	s.log.Info().Str("email", email).Msg("password set up")
	return nil
}

// ChangePassword replaces an existing password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, email, current, password, confirm string) error {
	if current == "" {
		return domain.ErrMissingFields
	}
	if err := validateNewPassword(password, confirm); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" {
		return domain.ErrNoPasswordSet
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	hashStr := string(hash)
	if err := s.users.UpdateByID(ctx, user.ID, ports.UserUpdate{PasswordHash: &hashStr}); err != nil {
		return err
	}

	s.log.Info().Str("email", email).Msg("password changed")
	return nil
}

// MigrateLegacyUsers backfills records created before the first/last name
// split: the single name field is split, the provider and profile picture are
// defaulted, and the legacy field is removed. Safe to re-run; migrated records
// no longer match the legacy query.
func (s *AuthService) MigrateLegacyUsers(ctx context.Context) (*ports.MigrationReport, error) {
	legacy, err := s.users.FindLegacyNamed(ctx)
	if err != nil {
		return nil, err
	}

	report := &ports.MigrationReport{}
	for _, user := range legacy {
		first, last := domain.SplitFullName(user.LegacyName)
		provider := user.Provider
		if provider == "" {
			provider = domain.ProviderGoogle
		}
		picture := user.ProfilePicture
		if picture == "" {
			picture = s.defaultProfilePicture
		}
		verified := user.EmailVerified
		if verified == nil {
			now := time.Now().UTC()
			verified = &now
		}

		upd := ports.UserUpdate{
			FirstName:       &first,
			LastName:        &last,
			Provider:        &provider,
			ProfilePicture:  &picture,
			EmailVerified:   verified,
			ClearLegacyName: true,
		}
		if err := s.users.UpdateByID(ctx, user.ID, upd); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("legacy user migration failed")
			report.Failed++
			continue
		}
		report.LegacyUsersMigrated++
	}

	s.log.Info().Int("migrated", report.LegacyUsersMigrated).Int("failed", report.Failed).Msg("legacy user migration complete")
	return report, nil
}

func validateNewPassword(password, confirm string) error {
	if password == "" || confirm == "" {
		return domain.ErrMissingFields
	}
	if password != confirm {
		return domain.ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}
	return nil
}

func identityFromUser(u *domain.User) *ports.Identity {
	return &ports.Identity{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Name:           u.DisplayName(),
		Email:          u.Email,
		Role:           domain.NormalizeRole(u.Role),
		ProfilePicture: u.ProfilePicture,
		Phone:          u.Phone,
		Bio:            u.Bio,
		SocialMedia:    u.SocialMedia,
		HasPassword:    u.PasswordHash != "",
	}
}
