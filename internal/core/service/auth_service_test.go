package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edusphere/elearning-api/internal/core/domain"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

const testProfilePicture = "/assets/images/profile.jpg"

type stubUserRepo struct {
	users   map[string]*domain.User // keyed by email
	nextID  int
	findErr error // forced error on FindByEmail when set
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, exists := r.users[u.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	copy := cloneUser(u)
	copy.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[u.Email] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) UpdateByID(_ context.Context, id string, upd ports.UserUpdate) error {
	for _, u := range r.users {
		if u.ID != id {
			continue
		}
		if upd.FirstName != nil {
			u.FirstName = *upd.FirstName
		}
		if upd.LastName != nil {
			u.LastName = *upd.LastName
		}
		if upd.PasswordHash != nil {
			u.PasswordHash = *upd.PasswordHash
			u.HasPassword = true
		}
		if upd.HasPassword != nil {
			u.HasPassword = *upd.HasPassword
		}
		if upd.ProfilePicture != nil {
			u.ProfilePicture = *upd.ProfilePicture
		}
		if upd.Provider != nil {
			u.Provider = *upd.Provider
		}
		if upd.EmailVerified != nil {
			u.EmailVerified = upd.EmailVerified
		}
		if upd.ClearLegacyName {
			u.LegacyName = ""
		}
		return nil
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) FindLegacyNamed(_ context.Context) ([]*domain.User, error) {
	var legacy []*domain.User
	for _, u := range r.users {
		if u.LegacyName != "" && u.FirstName == "" {
			legacy = append(legacy, cloneUser(u))
		}
	}
	return legacy, nil
}

func newAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, testProfilePicture, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:     "alice@example.com",
		Password:  "pass123",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleStudent {
		t.Fatalf("expected default role student, got %s", user.Role)
	}
	if user.Provider != domain.ProviderCredentials {
		t.Fatalf("expected credentials provider, got %s", user.Provider)
	}
	if !user.HasPassword {
		t.Fatalf("expected HasPassword=true")
	}
	if user.ProfilePicture != testProfilePicture {
		t.Fatalf("expected default profile picture, got %s", user.ProfilePicture)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "a@example.com", Password: "pass"})
	if !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	in := ports.RegisterInput{Email: "bob@example.com", Password: "pass123", FirstName: "Bob", LastName: "Ray"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(repo.users))
	}
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "carol@example.com", Password: "s3cret", FirstName: "Carol", LastName: "Jones", Role: "Instructor",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	identity, err := svc.AuthenticateCredentials(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if identity.Name != "Carol Jones" {
		t.Fatalf("unexpected display name: %s", identity.Name)
	}
	if identity.Role != domain.RoleInstructor {
		t.Fatalf("expected lower-cased role instructor, got %s", identity.Role)
	}
	if !identity.HasPassword {
		t.Fatalf("expected HasPassword=true")
	}
}

func TestAuthService_Authenticate_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "dave@example.com", Password: "goodpass", FirstName: "Dave", LastName: "Lee"})
	if _, err := svc.AuthenticateCredentials(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_UserNotFound(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	if _, err := svc.AuthenticateCredentials(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Authenticate_NoPasswordSet(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	// OAuth-only account: no password hash.
	if _, err := svc.ReconcileOAuthIdentity(context.Background(), domain.ProviderGoogle, ports.OAuthProfile{
		Name: "Eve Adams", Email: "eve@example.com",
	}); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	_, err := svc.AuthenticateCredentials(context.Background(), "eve@example.com", "whatever")
	if !errors.Is(err, domain.ErrNoPasswordSet) {
		t.Fatalf("expected ErrNoPasswordSet, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("ErrNoPasswordSet must stay distinguishable from ErrInvalidCredentials")
	}
}

func TestAuthService_ReconcileOAuth_CreatesOnce(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	profile := ports.OAuthProfile{Name: "Frank van der Berg", Email: "frank@example.com", Image: "https://cdn.example.com/f.png"}

	for i := 0; i < 5; i++ {
		identity, err := svc.ReconcileOAuthIdentity(context.Background(), domain.ProviderGitHub, profile)
		if err != nil {
			t.Fatalf("reconcile %d failed: %v", i, err)
		}
		if identity.HasPassword {
			t.Fatalf("oauth user must start without password")
		}
	}

	if len(repo.users) != 1 {
		t.Fatalf("expected one user after repeated sign-ins, got %d", len(repo.users))
	}

	user := repo.users["frank@example.com"]
	if user.FirstName != "Frank" || user.LastName != "van der Berg" {
		t.Fatalf("unexpected name split: %q %q", user.FirstName, user.LastName)
	}
	if user.EmailVerified == nil {
		t.Fatalf("oauth user should be email-verified on creation")
	}
	if user.Role != domain.RoleStudent {
		t.Fatalf("expected default role student, got %s", user.Role)
	}
}

func TestAuthService_ReconcileOAuth_BackfillsLegacyName(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	repo.users["gina@example.com"] = &domain.User{
		ID: "user_legacy", Email: "gina@example.com", LegacyName: "Gina Ortiz", Provider: domain.ProviderGoogle,
	}

	identity, err := svc.ReconcileOAuthIdentity(context.Background(), domain.ProviderGoogle, ports.OAuthProfile{
		Name: "Gina Ortiz", Email: "gina@example.com", Image: "https://cdn.example.com/g.png",
	})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	user := repo.users["gina@example.com"]
	if user.FirstName != "Gina" || user.LastName != "Ortiz" {
		t.Fatalf("expected backfilled names, got %q %q", user.FirstName, user.LastName)
	}
	if user.ProfilePicture != "https://cdn.example.com/g.png" {
		t.Fatalf("expected refreshed profile picture, got %s", user.ProfilePicture)
	}
	if identity.Name != "Gina Ortiz" {
		t.Fatalf("unexpected identity name: %s", identity.Name)
	}
}

func TestAuthService_ReconcileOAuth_KeepsExistingFirstName(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	repo.users["hank@example.com"] = &domain.User{
		ID: "user_h", Email: "hank@example.com", FirstName: "Henry", LastName: "Moss",
	}

	if _, err := svc.ReconcileOAuthIdentity(context.Background(), domain.ProviderGitHub, ports.OAuthProfile{
		Name: "Hank Different", Email: "hank@example.com",
	}); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	user := repo.users["hank@example.com"]
	if user.FirstName != "Henry" || user.LastName != "Moss" {
		t.Fatalf("backfill must not overwrite an existing first name: %q %q", user.FirstName, user.LastName)
	}
}

func TestAuthService_SetupPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	_, _ = svc.ReconcileOAuthIdentity(context.Background(), domain.ProviderGoogle, ports.OAuthProfile{Name: "Ivy Chen", Email: "ivy@example.com"})

	if err := svc.SetupPassword(context.Background(), "ivy@example.com", "newpass1", "newpass1"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	user := repo.users["ivy@example.com"]
	if user.PasswordHash == "" || !user.HasPassword {
		t.Fatalf("expected password to be set")
	}

	// Terminal state: a second setup is rejected.
	if err := svc.SetupPassword(context.Background(), "ivy@example.com", "another1", "another1"); !errors.Is(err, domain.ErrPasswordAlreadySet) {
		t.Fatalf("expected ErrPasswordAlreadySet, got %v", err)
	}
}

func TestAuthService_SetupPassword_Validation(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	if err := svc.SetupPassword(context.Background(), "x@example.com", "abcdef", "abcdeg"); !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := svc.SetupPassword(context.Background(), "x@example.com", "abc", "abc"); !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "jack@example.com", Password: "original1", FirstName: "Jack", LastName: "Ng"})
	before := repo.users["jack@example.com"].PasswordHash

	err := svc.ChangePassword(context.Background(), "jack@example.com", "wrongpass", "replaced1", "replaced1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if repo.users["jack@example.com"].PasswordHash != before {
		t.Fatalf("stored hash must not change on a rejected attempt")
	}
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "kim@example.com", Password: "original1", FirstName: "Kim", LastName: "Park"})

	if err := svc.ChangePassword(context.Background(), "kim@example.com", "original1", "replaced1", "replaced1"); err != nil {
		t.Fatalf("change failed: %v", err)
	}

	if _, err := svc.AuthenticateCredentials(context.Background(), "kim@example.com", "replaced1"); err != nil {
		t.Fatalf("authenticate with new password failed: %v", err)
	}
}

func TestAuthService_MigrateLegacyUsers(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	repo.users["old@example.com"] = &domain.User{ID: "user_old", Email: "old@example.com", LegacyName: "Old Timer"}
	repo.users["new@example.com"] = &domain.User{ID: "user_new", Email: "new@example.com", FirstName: "Already", LastName: "Split"}

	report, err := svc.MigrateLegacyUsers(context.Background())
	if err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	if report.LegacyUsersMigrated != 1 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	migrated := repo.users["old@example.com"]
	if migrated.FirstName != "Old" || migrated.LastName != "Timer" {
		t.Fatalf("unexpected split: %q %q", migrated.FirstName, migrated.LastName)
	}
	if migrated.LegacyName != "" {
		t.Fatalf("legacy name field should be cleared")
	}

	// Re-running finds nothing left to migrate.
	report, err = svc.MigrateLegacyUsers(context.Background())
	if err != nil || report.LegacyUsersMigrated != 0 {
		t.Fatalf("expected idempotent re-run, got %+v (%v)", report, err)
	}
}
