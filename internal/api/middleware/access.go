package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/backoffice/internal/api/metrics"
	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

// RequireFeature gates a route group behind a single feature. The caller's
// role (set by Auth) is resolved against the feature map on every request, so
// a role override takes effect without re-login. Denied browser requests are
// bounced to the role's landing page; API clients get a 403.
func RequireFeature(feature domain.Feature, access ports.AccessService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if access.CanAccess(c.Request().Context(), role, feature) {
				return next(c)
			}

			metrics.AccessDeniedTotal.WithLabelValues(role, string(feature)).Inc()
			if wantsHTML(c) {
				return c.Redirect(http.StatusFound, access.DefaultLandingRoute(c.Request().Context(), role))
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "feature not available for role"})
		}
	}
}
