package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/handler"
	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

const secret = "router-secret"

func newRouter() *echo.Echo {
	log := zap.NewNop()
	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	RegisterRoutes(e, Deps{
		JWTSecret:    secret,
		Logger:       log,
		Auth:         handler.NewAuthHandler(nil, nil, secret, log),
		Reservations: handler.NewReservationHandler(nil, log),
		Payments:     handler.NewPaymentHandler(nil, log),
		RoomTypes:    handler.NewRoomTypeHandler(nil, log),
		Rooms:        handler.NewRoomHandler(nil, log),
		Users:        handler.NewUserHandler(nil, log),
	})
	return e
}

func request(e *echo.Echo, method, path string, roles ...string) int {
	req := httptest.NewRequest(method, path, nil)
	if len(roles) > 0 {
		tok, _ := utils.NewAccessToken(secret, uuid.New(), roles, 5)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestHealthIsPublic(t *testing.T) {
	assert.Equal(t, http.StatusOK, request(newRouter(), http.MethodGet, "/healthz"))
}

func TestRoleGuards(t *testing.T) {
	e := newRouter()
	cases := []struct {
		method, path string
		roles        []string
		want         int
	}{
		{http.MethodGet, "/v1/reservations", nil, http.StatusUnauthorized},
		{http.MethodGet, "/v1/reservations", []string{model.RoleUser}, http.StatusForbidden},
		{http.MethodPost, "/v1/payments", []string{model.RoleUser}, http.StatusForbidden},
		{http.MethodPost, "/v1/room-types", []string{model.RoleReceptionist}, http.StatusForbidden},
		{http.MethodDelete, "/v1/rooms/" + uuid.NewString(), []string{model.RoleReceptionist}, http.StatusForbidden},
		{http.MethodGet, "/v1/users", []string{model.RoleReceptionist}, http.StatusForbidden},
		{http.MethodGet, "/v1/profile", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, request(e, tc.method, tc.path, tc.roles...), tc.method+" "+tc.path)
	}
}

// Requests that pass the guards reach the handler, which rejects the
// malformed id before touching its service.
func TestGuardsLetAllowedRolesThrough(t *testing.T) {
	e := newRouter()
	assert.Equal(t, http.StatusBadRequest, request(e, http.MethodGet, "/v1/reservations/nope", model.RoleReceptionist))
	assert.Equal(t, http.StatusBadRequest, request(e, http.MethodGet, "/v1/users/nope", model.RoleManager))
	assert.Equal(t, http.StatusBadRequest, request(e, http.MethodDelete, "/v1/rooms/nope", model.RoleAdministrator))
}

func TestRoutesRegistered(t *testing.T) {
	e := newRouter()
	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /v1/auth/login", "POST /v1/auth/refresh", "POST /v1/auth/logout", "GET /v1/me",
		"POST /v1/reservations", "GET /v1/reservations", "GET /v1/reservations/:id",
		"PATCH /v1/reservations/:id/status", "PUT /v1/reservations/:id/rooms", "DELETE /v1/reservations/:id",
		"POST /v1/payments", "GET /v1/payments/menus", "GET /v1/payments/:id",
		"POST /v1/room-types", "GET /v1/room-types", "GET /v1/room-types/preview", "GET /v1/room-types/availability",
		"POST /v1/rooms", "GET /v1/rooms", "GET /v1/rooms/:id", "PUT /v1/rooms/:id", "DELETE /v1/rooms/:id",
		"POST /v1/users", "GET /v1/users", "GET /v1/users/:id", "POST /v1/users/:id/activate", "DELETE /v1/users/:id",
		"GET /v1/roles", "GET /v1/profile", "POST /v1/profile/password", "GET /v1/dashboard",
	} {
		require.True(t, have[want], want)
	}
}
