package payments

import (
	"github.com/gin-gonic/gin"

	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"
)

// RegisterRoutes wires the payment endpoints onto the given router group.
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, cfg *config.Config) {
	paymentGroup := rg.Group("/payments")
	paymentGroup.Use(middleware.JWTAuthWithConfig(cfg))
	{
		paymentGroup.POST("/create-intent", ctrl.CreateIntent)
		paymentGroup.POST("/confirm", ctrl.ConfirmPayment)
		paymentGroup.GET("/my", ctrl.ListMyPayments)

		admin := paymentGroup.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("", ctrl.ListAllPayments)
		}
	}
}
