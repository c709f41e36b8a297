package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusphere/elearning-api/internal/api/middleware"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

// AuthHandler handles registration, sign-in (credentials and OAuth callback),
// and session refresh.
type AuthHandler struct {
	authService ports.AuthService
	tokens      ports.TokenService
}

func NewAuthHandler(authService ports.AuthService, tokens ports.TokenService) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

// Register creates a new credentials user.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User: &publicUser{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Role:      user.Role,
		},
	})
}

// Login authenticates an email/password pair and returns a session token.
//
// @Summary      Credential sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := h.authService.AuthenticateCredentials(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return h.issueSession(c, identity, "credentials")
}

// OAuthCallback reconciles a verified provider profile into the user store and
// returns a session token. Safe to call repeatedly for the same identity.
//
// @Summary      OAuth sign-in callback
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      oauthCallbackRequest  true  "Verified provider profile"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/auth/oauth/callback [post]
func (h *AuthHandler) OAuthCallback(c echo.Context) error {
	var req oauthCallbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := h.authService.ReconcileOAuthIdentity(c.Request().Context(), req.Provider, ports.OAuthProfile{
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
	})
	if err != nil {
		return err
	}

	return h.issueSession(c, identity, req.Provider)
}

// Session re-validates the bearer token, corrects the cached has_password
// value from the user store, and returns the projected session with a renewed
// token.
//
// @Summary      Refresh and project the current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	raw, err := middleware.BearerToken(c)
	if err != nil {
		return err
	}

	renewed, claims, err := h.tokens.Refresh(c.Request().Context(), raw)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Token:   renewed,
		Session: h.tokens.Project(claims),
	})
}

func (h *AuthHandler) issueSession(c echo.Context, identity *ports.Identity, provider string) error {
	token, err := h.tokens.Issue(identity, provider)
	if err != nil {
		return err
	}

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

	return c.JSON(http.StatusOK, sessionResponse{
		Token:   token,
		Session: h.tokens.Project(claims),
	})
}
