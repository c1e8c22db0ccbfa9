package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/config"
	"github.com/iliyamo/hotel-backoffice/internal/handler"
	"github.com/iliyamo/hotel-backoffice/internal/middleware"
	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// Role sets used by the route groups.
var (
	staffRoles   = []string{model.RoleAdministrator, model.RoleManager, model.RoleReceptionist}
	managerRoles = []string{model.RoleAdministrator, model.RoleManager}
	anyRole      = []string{model.RoleAdministrator, model.RoleManager, model.RoleReceptionist, model.RoleUser}
)

// Deps is everything the routes need.  Redis may be nil; rate limiting
// and caching are then disabled.
type Deps struct {
	JWTSecret string
	DB        *sql.DB
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Logger    *zap.Logger

	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Payments     *handler.PaymentHandler
	RoomTypes    *handler.RoomTypeHandler
	Rooms        *handler.RoomHandler
	Users        *handler.UserHandler
}

// RegisterRoutes registers every route of the API on e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.DB))

	RegisterAuth(e, d)
	RegisterReservations(e, d)
	RegisterCatalog(e, d)
	RegisterStaff(e, d)
}

// protected builds a /v1 group that requires a valid access token and one
// of roles.  The rate limiter runs after authentication so buckets are
// keyed by user.
func protected(e *echo.Echo, d Deps, roles ...string) *echo.Group {
	return e.Group("/v1",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(roles...),
		middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Logger),
	)
}

// RegisterAuth registers the session endpoints.  Login, refresh and logout
// do not require an existing access token; login has its own, tighter
// rate-limit bucket.
func RegisterAuth(e *echo.Echo, d Deps) {
	g := e.Group("/v1/auth")
	g.POST("/login", d.Auth.Login, middleware.NewTokenBucket(d.RateLimit.ForLogin(), d.Redis, d.Logger))
	g.POST("/refresh", d.Auth.Refresh)
	g.POST("/logout", d.Auth.Logout)

	me := protected(e, d, anyRole...)
	me.GET("/me", d.Auth.Me)
}
