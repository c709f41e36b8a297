package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusphere/elearning-api/internal/core/ports"
)

// AdminHandler exposes operational endpoints restricted to the admin role.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

type migrateResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Result  *ports.MigrationReport `json:"result"`
}

// MigrateUsers backfills legacy single-name user records into the current
// schema. Safe to re-run: migrated records drop out of the legacy query.
//
// @Summary      Migrate legacy user records
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  migrateResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/migrate-users [post]
func (h *AdminHandler) MigrateUsers(c echo.Context) error {
	report, err := h.authService.MigrateLegacyUsers(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, migrateResponse{
		Success: true,
		Message: "Migration completed successfully",
		Result:  report,
	})
}
