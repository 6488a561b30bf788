package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightfold/portal-api/internal/api/middleware"
	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

// ctxIdentity extracts the identity the route guard resolved for this
// request. Absence means the handler was mounted without its guard —
// fail closed rather than proceeding unscoped.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get(middleware.IdentityKey).(*domain.Identity)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return identity, nil
}

// ctxScope derives the data scope from the resolved identity. A client
// identity without a client record would make every query unscoped, so
// it is rejected here, before any service call.
func ctxScope(c echo.Context) (ports.Scope, error) {
	identity, err := ctxIdentity(c)
	if err != nil {
		return ports.Scope{}, err
	}
	if identity.Kind == domain.ActorClient && identity.Client == nil {
		return ports.Scope{}, echo.NewHTTPError(http.StatusUnauthorized, "session missing client identity")
	}
	return ports.Scope{Actor: identity.Kind, ClientID: identity.TenantID()}, nil
}
