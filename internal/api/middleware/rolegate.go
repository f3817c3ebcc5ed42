package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/utilitrack/usage-system/internal/core/domain"
)

// RoleGate restricts a route group to one role. A caller holding the other
// role is not shown an error: they are redirected to their own dashboard,
// mirroring how the dashboards link to each other. Callers with no role in
// context never passed Auth and get a 401.
func RoleGate(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if role != required {
				return c.Redirect(http.StatusSeeOther, dashboardFor(role))
			}
			return next(c)
		}
	}
}

func dashboardFor(role string) string {
	if role == domain.RoleAdmin {
		return "/admin/dashboard"
	}
	return "/users/dashboard"
}
