package router

import (
	"github.com/labstack/echo/v4"
)

// RegisterReservations registers reservation, payment and dashboard
// endpoints.  All of them are front-desk work.
func RegisterReservations(e *echo.Echo, d Deps) {
	g := protected(e, d, staffRoles...)

	// ---- Reservations ----
	g.POST("/reservations", d.Reservations.Create)
	g.GET("/reservations", d.Reservations.List)
	g.GET("/reservations/:id", d.Reservations.Get)
	g.PATCH("/reservations/:id/status", d.Reservations.UpdateStatus)
	g.PUT("/reservations/:id/rooms", d.Reservations.AssignRooms)
	g.DELETE("/reservations/:id", d.Reservations.Delete)

	// ---- Payments ----
	g.POST("/payments", d.Payments.Create)
	g.GET("/payments/menus", d.Payments.Menus)
	g.GET("/payments/:id", d.Payments.Get)

	// ---- Availability ----
	g.GET("/dashboard", d.Reservations.Dashboard)
	g.GET("/room-types/availability", d.Reservations.Availability)
}
