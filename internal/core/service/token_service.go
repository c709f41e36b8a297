package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/edusphere/elearning-api/internal/core/domain"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// TokenService issues and refreshes HS256 session tokens carrying a snapshot
// of user state. The snapshot is trusted for the token's lifetime except
// has_password, which is re-read from the user store on every refresh.
type TokenService struct {
	users  ports.UserRepository
	secret string
	ttl    time.Duration
	log    zerolog.Logger
}

func NewTokenService(users ports.UserRepository, secret string, ttl time.Duration, log zerolog.Logger) *TokenService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &TokenService{users: users, secret: secret, ttl: ttl, log: log}
}

// Issue signs a fresh token from a just-reconciled identity.
func (s *TokenService) Issue(identity *ports.Identity, provider string) (string, error) {
	claims := &ports.SessionClaims{
		UserID:         identity.ID,
		Email:          identity.Email,
		FirstName:      identity.FirstName,
		LastName:       identity.LastName,
		Role:           identity.Role,
		Provider:       provider,
		ProfilePicture: identity.ProfilePicture,
		Phone:          identity.Phone,
		Bio:            identity.Bio,
		SocialMedia:    identity.SocialMedia,
		HasPassword:    identity.HasPassword,
	}
	return s.sign(claims)
}

// Decode validates the signature and expiry and returns the carried claims.
func (s *TokenService) Decode(raw string) (*ports.SessionClaims, error) {
	mc := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, mc, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	return claimsFromMap(mc), nil
}

// Refresh re-validates a token and overwrites the cached has_password value
// from the user store. Password setup can happen between token issuance and
// use; a stale cached value must not block or wrongly permit credential login.
// When the backing lookup fails the cached value is kept rather than failing
// the whole session.
func (s *TokenService) Refresh(ctx context.Context, raw string) (string, *ports.SessionClaims, error) {
	claims, err := s.Decode(raw)
	if err != nil {
		return "", nil, err
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		claims.HasPassword = user.PasswordHash != ""
	case errors.Is(err, domain.ErrUserNotFound):
		return "", nil, domain.ErrUserNotFound
	default:
		s.log.Warn().Err(err).Str("email", claims.Email).Msg("has_password refresh lookup failed, keeping cached value")
	}

	renewed, err := s.sign(claims)
	if err != nil {
		return "", nil, err
	}
	return renewed, claims, nil
}

// Project maps claims to the externally visible session shape. The computed
// name prefers the split first/last name over the legacy single name field,
// and the picture is exposed under both keys for client compatibility.
func (s *TokenService) Project(claims *ports.SessionClaims) *ports.Session {
	name := claims.LegacyName
	if claims.FirstName != "" || claims.LastName != "" {
		name = joinName(claims.FirstName, claims.LastName)
	}
	return &ports.Session{
		ID:             claims.UserID,
		FirstName:      claims.FirstName,
		LastName:       claims.LastName,
		Name:           name,
		Email:          claims.Email,
		Role:           claims.Role,
		ProfilePicture: claims.ProfilePicture,
		Image:          claims.ProfilePicture,
		Phone:          claims.Phone,
		Bio:            claims.Bio,
		SocialMedia:    claims.SocialMedia,
		Provider:       claims.Provider,
		HasPassword:    claims.HasPassword,
	}
}

func (s *TokenService) sign(c *ports.SessionClaims) (string, error) {
	now := time.Now()
	mc := jwt.MapClaims{
		"sub":             c.UserID,
		"email":           c.Email,
		"first_name":      c.FirstName,
		"last_name":       c.LastName,
		"role":            c.Role,
		"provider":        c.Provider,
		"profile_picture": c.ProfilePicture,
		"has_password":    c.HasPassword,
		"iat":             now.Unix(),
		"exp":             now.Add(s.ttl).Unix(),
	}
	if c.LegacyName != "" {
		mc["name"] = c.LegacyName
	}
	if c.Phone != "" {
		mc["phone"] = c.Phone
	}
	if c.Bio != "" {
		mc["bio"] = c.Bio
	}
	if len(c.SocialMedia) > 0 {
		social := make(map[string]any, len(c.SocialMedia))
		for k, v := range c.SocialMedia {
			social[k] = v
		}
		mc["social_media"] = social
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return t.SignedString([]byte(s.secret))
}

func claimsFromMap(mc jwt.MapClaims) *ports.SessionClaims {
	c := &ports.SessionClaims{
		UserID:         stringClaim(mc, "sub"),
		Email:          stringClaim(mc, "email"),
		FirstName:      stringClaim(mc, "first_name"),
		LastName:       stringClaim(mc, "last_name"),
		LegacyName:     stringClaim(mc, "name"),
		Role:           stringClaim(mc, "role"),
		Provider:       stringClaim(mc, "provider"),
		ProfilePicture: stringClaim(mc, "profile_picture"),
		Phone:          stringClaim(mc, "phone"),
		Bio:            stringClaim(mc, "bio"),
	}
	c.HasPassword, _ = mc["has_password"].(bool)
	if social, ok := mc["social_media"].(map[string]any); ok {
		c.SocialMedia = make(map[string]string, len(social))
		for k, v := range social {
			if sv, ok := v.(string); ok {
				c.SocialMedia[k] = sv
			}
		}
	}
	return c
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, _ := mc[key].(string)
	return v
}

func joinName(first, last string) string {
	if last == "" {
		return first
	}
	if first == "" {
		return last
	}
	return first + " " + last
}
