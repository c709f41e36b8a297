package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusphere/elearning-api/internal/api/middleware"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

// PasswordHandler handles the password-setup lifecycle for the authenticated
// user. Both routes sit behind the Auth middleware; the target account is the
// session's email, never a request field.
type PasswordHandler struct {
	authService ports.AuthService
}

func NewPasswordHandler(authService ports.AuthService) *PasswordHandler {
	return &PasswordHandler{authService: authService}
}

// Setup sets an initial password on an OAuth-only account.
//
// @Summary      Set up a password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setupPasswordRequest  true  "New password and confirmation"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/auth/password [post]
func (h *PasswordHandler) Setup(c echo.Context) error {
	claims := middleware.SessionClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	var req setupPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.SetupPassword(c.Request().Context(), claims.Email, req.Password, req.ConfirmPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Message: "Password set successfully! You can now login with email and password.",
		Success: true,
	})
}

// Change replaces an existing password after verifying the current one.
//
// @Summary      Change the password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/password [put]
func (h *PasswordHandler) Change(c echo.Context) error {
	claims := middleware.SessionClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), claims.Email, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Message: "Password updated successfully!",
		Success: true,
	})
}
