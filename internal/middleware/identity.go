package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// identity.go holds helpers shared across middleware files.

// rateKeyUser identifies the caller for rate-limit keys.  Anonymous
// requests share the "anon" bucket of their IP.
func rateKeyUser(c echo.Context) string {
	if id := UserID(c); id != uuid.Nil {
		return id.String()
	}
	return "anon"
}

// errorBody is the JSON error envelope shared with the handlers.
func errorBody(status int, msg string) map[string]any {
	return map[string]any{
		"status":    status,
		"error":     msg,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
