package events

import (
	"github.com/gin-gonic/gin"

	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"
	"eventhub/internal/users"
)

// RegisterRoutes wires the event endpoints onto the given router group.
// Listing and detail are public; everything else requires a token.
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, cfg *config.Config) {
	eventGroup := rg.Group("/events")
	{
		eventGroup.GET("", ctrl.ListEvents)
		eventGroup.GET("/:id", ctrl.GetEvent)

		protected := eventGroup.Group("")
		protected.Use(middleware.JWTAuthWithConfig(cfg))
		{
			protected.GET("/my", ctrl.GetMyEvents)
			protected.GET("/:id/attendees", ctrl.GetAttendees)

			organizer := protected.Group("")
			organizer.Use(middleware.RequireRoles(string(users.RoleOrganizer), string(users.RoleAdmin)))
			{
				organizer.POST("", ctrl.CreateEvent)
				organizer.PUT("/:id", ctrl.UpdateEvent)
				organizer.DELETE("/:id", ctrl.DeleteEvent)
			}
		}
	}
}
