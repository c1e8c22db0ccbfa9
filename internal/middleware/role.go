package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through when the principal stored by
// JWTAuth holds at least one of roles, and answers 403 otherwise.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Principal(c)
			if !ok || !p.HasAnyRole(roles...) {
				return c.JSON(http.StatusForbidden, errorBody(http.StatusForbidden, "forbidden"))
			}
			return next(c)
		}
	}
}
