package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brightfold/portal-api/internal/api/metrics"
	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

// ClientAuthHandler exposes the client access-key login surface.
type ClientAuthHandler struct {
	auth ports.IdentityProvider
}

func NewClientAuthHandler(auth ports.IdentityProvider) *ClientAuthHandler {
	return &ClientAuthHandler{auth: auth}
}

type clientLoginRequest struct {
	AccessKey string `json:"access_key" validate:"required"`
}

// Login resolves an access key into a client session. The key is
// case-insensitive; an unknown key is a denial with an actionable
// message, not an internal error.
func (h *ClientAuthHandler) Login(c echo.Context) error {
	var req clientLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, token, err := h.auth.Login(c.Request().Context(), ports.Credentials{AccessKey: req.AccessKey})
	if err != nil {
		if errors.Is(err, domain.ErrDeniedCredential) {
			metrics.LoginsTotal.WithLabelValues("client", "denied").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid client ID"})
		}
		metrics.LoginsTotal.WithLabelValues("client", "error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("client", "ok").Inc()
	return c.JSON(http.StatusOK, sessionResponse{Token: token, Identity: identity})
}

func (h *ClientAuthHandler) Logout(c echo.Context) error {
	token := bearerTokenFromRequest(c)
	if err := h.auth.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// bearerTokenFromRequest extracts the raw bearer token, or "" when the
// header is absent or malformed.
func bearerTokenFromRequest(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
