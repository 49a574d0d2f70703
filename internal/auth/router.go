package auth

import (
	"github.com/gin-gonic/gin"

	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"
)

// RegisterRoutes wires the auth endpoints onto the given router group.
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, cfg *config.Config) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", ctrl.Register)
		authGroup.POST("/login", ctrl.Login)
		authGroup.POST("/refresh", ctrl.RefreshToken)
		authGroup.POST("/forgot-password", ctrl.ForgotPassword)
		authGroup.POST("/reset-password", ctrl.ResetPassword)

		protected := authGroup.Group("")
		protected.Use(middleware.JWTAuthWithConfig(cfg))
		{
			protected.GET("/me", ctrl.Me)
			protected.POST("/change-password", ctrl.ChangePassword)
		}
	}
}
