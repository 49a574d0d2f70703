package bookings

import (
	"github.com/gin-gonic/gin"

	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"
	"eventhub/internal/users"
)

// RegisterRoutes wires the booking endpoints onto the given router group.
// Every endpoint requires authentication.
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, cfg *config.Config) {
	bookingGroup := rg.Group("/bookings")
	bookingGroup.Use(middleware.JWTAuthWithConfig(cfg))
	bookingGroup.Use(middleware.RequireRoles(
		string(users.RoleAttendee),
		string(users.RoleOrganizer),
		string(users.RoleAdmin),
	))
	{
		bookingGroup.POST("", ctrl.CreateBooking)
		bookingGroup.GET("", ctrl.ListBookings)
		bookingGroup.GET("/:id", ctrl.GetBooking)
		bookingGroup.DELETE("/:id", ctrl.CancelBooking)
	}
}
