package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

// Context keys set by JWTAuth.
const (
	CtxUserID    = "user_id"
	CtxRoles     = "roles"
	CtxPrincipal = "principal"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the caller into the request context.  Handlers read the
// authenticated staff member with Principal(c) or UserID(c).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			p, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return unauthorized(c, "invalid token")
			}
			c.Set(CtxUserID, p.UserID)
			c.Set(CtxRoles, p.Roles)
			c.Set(CtxPrincipal, p)
			return next(c)
		}
	}
}

// Principal returns the authenticated caller.  ok is false on routes that
// are not wrapped by JWTAuth.
func Principal(c echo.Context) (utils.Principal, bool) {
	p, ok := c.Get(CtxPrincipal).(utils.Principal)
	return p, ok
}

// UserID returns the authenticated user's id or uuid.Nil.
func UserID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(CtxUserID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, msg))
}
