package router

import (
	"github.com/labstack/echo/v4"
)

// RegisterStaff registers account management, roles and the caller's
// own profile.
func RegisterStaff(e *echo.Echo, d Deps) {
	admin := protected(e, d, managerRoles...)
	admin.POST("/users", d.Users.Create)
	admin.GET("/users", d.Users.List)
	admin.GET("/users/:id", d.Users.Get)
	admin.POST("/users/:id/activate", d.Users.Activate)
	admin.DELETE("/users/:id", d.Users.Deactivate)
	admin.GET("/roles", d.Users.Roles)

	self := protected(e, d, anyRole...)
	self.GET("/profile", d.Users.Profile)
	self.POST("/profile/password", d.Users.ChangePassword)
}
