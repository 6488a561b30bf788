package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightfold/portal-api/internal/api/metrics"
	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

// DeveloperAuthHandler exposes the developer sign-up/sign-in surface
// backed by the credentialed account service.
type DeveloperAuthHandler struct {
	auth ports.DeveloperRegistrar
}

func NewDeveloperAuthHandler(auth ports.DeveloperRegistrar) *DeveloperAuthHandler {
	return &DeveloperAuthHandler{auth: auth}
}

type signUpRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Name     string   `json:"name" validate:"required"`
	Skills   []string `json:"skills,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUp creates the account, the profile, and the role grant. A
// profile failure after the account exists is reported distinctly so
// the orphaned account is visible, not swallowed.
func (h *DeveloperAuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, token, err := h.auth.SignUp(c.Request().Context(), ports.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Skills:   req.Skills,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountExists):
			return c.JSON(http.StatusConflict, map[string]string{"error": "account already exists"})
		case errors.Is(err, domain.ErrOrphanedIdentity):
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "account was created but the developer profile could not be; contact support before retrying",
			})
		case errors.Is(err, domain.ErrDeniedCredential):
			return echo.NewHTTPError(http.StatusBadRequest, "email, password and name are required")
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("developer", "ok").Inc()
	return c.JSON(http.StatusCreated, sessionResponse{Token: token, Identity: identity})
}

// SignIn validates credentials and requires a developer profile; a
// bare account signs straight back out with a distinct message.
func (h *DeveloperAuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, token, err := h.auth.Login(c.Request().Context(), ports.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDeniedCredential):
			metrics.LoginsTotal.WithLabelValues("developer", "denied").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
		case errors.Is(err, domain.ErrOrphanedIdentity):
			metrics.LoginsTotal.WithLabelValues("developer", "denied").Inc()
			return c.JSON(http.StatusForbidden, map[string]string{"error": "This account is not registered as a developer"})
		}
		metrics.LoginsTotal.WithLabelValues("developer", "error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("developer", "ok").Inc()
	return c.JSON(http.StatusOK, sessionResponse{Token: token, Identity: identity})
}

func (h *DeveloperAuthHandler) SignOut(c echo.Context) error {
	token := bearerTokenFromRequest(c)
	if err := h.auth.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
