package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-backoffice/internal/middleware"
)

// RegisterCatalog registers room types and rooms.  Staff can read them;
// only managers change them.  Room-type reads are served from the Redis
// cache, which every successful room-type write purges.
func RegisterCatalog(e *echo.Echo, d Deps) {
	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Logger)
	purge := middleware.PurgeOnWrite(d.Cache, d.Redis, d.Logger)

	read := protected(e, d, staffRoles...)
	read.GET("/room-types", d.RoomTypes.List, cache)
	read.GET("/room-types/preview", d.RoomTypes.Preview, cache)
	read.GET("/rooms", d.Rooms.List)
	read.GET("/rooms/:id", d.Rooms.Get)

	write := protected(e, d, managerRoles...)
	write.POST("/room-types", d.RoomTypes.Create, purge)
	write.POST("/rooms", d.Rooms.Create)
	write.PUT("/rooms/:id", d.Rooms.Update)
	write.DELETE("/rooms/:id", d.Rooms.Delete)
}
