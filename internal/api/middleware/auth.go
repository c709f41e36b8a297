package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edusphere/elearning-api/internal/core/ports"
)

// TokenDecoder is the slice of the token service the middleware needs.
type TokenDecoder interface {
	Decode(raw string) (*ports.SessionClaims, error)
}

// Auth validates the bearer session token and injects the decoded claims into
// context under "session", plus "email" and "role" for quick access.
func Auth(tokens TokenDecoder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := BearerToken(c)
			if err != nil {
				return err
			}

			claims, err := tokens.Decode(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("session", claims)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}

// BearerToken extracts the raw token from the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

// SessionClaims returns the claims injected by Auth, or nil when absent.
func SessionClaims(c echo.Context) *ports.SessionClaims {
	claims, _ := c.Get("session").(*ports.SessionClaims)
	return claims
}
