package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightfold/portal-api/internal/api/metrics"
	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

// AdminAuthHandler exposes the admin passphrase login surface.
type AdminAuthHandler struct {
	auth ports.IdentityProvider
}

func NewAdminAuthHandler(auth ports.IdentityProvider) *AdminAuthHandler {
	return &AdminAuthHandler{auth: auth}
}

type adminLoginRequest struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

type sessionResponse struct {
	Token    string           `json:"token"`
	Identity *domain.Identity `json:"identity"`
}

// Login unlocks an admin session. Denials carry no detail beyond the
// message; each attempt is independent and no lockout accumulates.
func (h *AdminAuthHandler) Login(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, token, err := h.auth.Login(c.Request().Context(), ports.Credentials{Passphrase: req.Passphrase})
	if err != nil {
		if errors.Is(err, domain.ErrDeniedCredential) {
			metrics.LoginsTotal.WithLabelValues("admin", "denied").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid security credentials"})
		}
		metrics.LoginsTotal.WithLabelValues("admin", "error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("admin", "ok").Inc()
	return c.JSON(http.StatusOK, sessionResponse{Token: token, Identity: identity})
}

// Logout closes the session. Idempotent: logging out twice succeeds.
func (h *AdminAuthHandler) Logout(c echo.Context) error {
	token := bearerTokenFromRequest(c)
	if err := h.auth.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
