// Package middleware implements the route guards. A guard runs on
// every request into its subtree — never once at startup — because
// session state changes out of band: a logout elsewhere, an expired
// token, an admin flipping a client's pro tier.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brightfold/portal-api/internal/api/metrics"
	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

// IdentityKey is the echo context key under which a guard stores the
// resolved identity for downstream handlers.
const IdentityKey = "identity"

// Login surfaces per subtree; carried in redirect envelopes so the
// frontend knows where to send the user.
const (
	AdminLoginPath     = "/admin/login"
	ClientLoginPath    = "/client/login"
	DeveloperLoginPath = "/dev/login"
	ClientDashboard    = "/client/dashboard"
)

// Decision is a guard outcome.
type Decision int

const (
	// DecisionRender lets the request through.
	DecisionRender Decision = iota
	// DecisionLoginRedirect means no usable session: go to login.
	DecisionLoginRedirect
	// DecisionTierRedirect means the identity is valid but the tier is
	// insufficient: go to the standard dashboard, not to login.
	DecisionTierRedirect
)

// EvaluateActor decides whether identity grants access to a subtree
// guarded for the given actor kind.
func EvaluateActor(identity *domain.Identity, kind domain.ActorKind) Decision {
	if identity == nil || identity.Kind != kind {
		return DecisionLoginRedirect
	}
	return DecisionRender
}

// EvaluatePro is the two-stage pro-subtree check: first "is there any
// client session", then "is that client on the pro tier". Failing the
// second stage redirects into the standard client subtree, because the
// identity is valid and only the tier is missing.
func EvaluatePro(identity *domain.Identity) Decision {
	if identity == nil || identity.Kind != domain.ActorClient || identity.Client == nil {
		return DecisionLoginRedirect
	}
	if !identity.Client.IsPro {
		return DecisionTierRedirect
	}
	return DecisionRender
}

// redirectResponse is the envelope rendered for every non-render
// decision.
type redirectResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// Guard returns middleware that authorizes one subtree for one actor
// kind. The bearer token is re-resolved through the provider on every
// request, so revocation and server-side record changes apply on the
// next navigation.
func Guard(provider ports.IdentityProvider, kind domain.ActorKind, subtree, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := resolveIdentity(c, provider)
			switch EvaluateActor(identity, kind) {
			case DecisionRender:
				metrics.GuardDecisionsTotal.WithLabelValues(subtree, "render").Inc()
				c.Set(IdentityKey, identity)
				return next(c)
			default:
				metrics.GuardDecisionsTotal.WithLabelValues(subtree, "login_redirect").Inc()
				return c.JSON(http.StatusUnauthorized, redirectResponse{
					Error:    "authentication required",
					Redirect: loginPath,
				})
			}
		}
	}
}

// ProGuard returns the two-stage middleware for the pro subtree.
func ProGuard(provider ports.IdentityProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := resolveIdentity(c, provider)
			switch EvaluatePro(identity) {
			case DecisionRender:
				metrics.GuardDecisionsTotal.WithLabelValues("pro", "render").Inc()
				c.Set(IdentityKey, identity)
				return next(c)
			case DecisionTierRedirect:
				metrics.GuardDecisionsTotal.WithLabelValues("pro", "tier_redirect").Inc()
				return c.JSON(http.StatusForbidden, redirectResponse{
					Error:    "pro tier required",
					Redirect: ClientDashboard,
				})
			default:
				metrics.GuardDecisionsTotal.WithLabelValues("pro", "login_redirect").Inc()
				return c.JSON(http.StatusUnauthorized, redirectResponse{
					Error:    "authentication required",
					Redirect: ClientLoginPath,
				})
			}
		}
	}
}

// resolveIdentity extracts the bearer token and re-resolves it. Any
// failure collapses to a nil identity; the guard turns that into a
// login redirect without detail.
func resolveIdentity(c echo.Context, provider ports.IdentityProvider) *domain.Identity {
	token := bearerToken(c)
	if token == "" {
		return nil
	}
	identity, err := provider.Current(c.Request().Context(), token)
	if err != nil {
		return nil
	}
	return identity
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
