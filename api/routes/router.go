// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventhub/internal/auth"
	"eventhub/internal/bookings"
	"eventhub/internal/events"
	"eventhub/internal/notifications"
	"eventhub/internal/payments"
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/database"
	"eventhub/pkg/cache"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier *notifications.Service
}

// NewRouter creates a new router instance. The notifier may be nil when
// the notification pipeline is disabled.
func NewRouter(cfg *config.Config, db *database.DB, notifier *notifications.Service) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupEventRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "eventhub-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "eventhub-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config, r.notifier)
	authController := auth.NewController(authService)

	auth.RegisterRoutes(rg, authController, r.config)
}

func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	var cacheService cache.Service
	if r.db.Redis != nil {
		cacheService = cache.NewService(r.db.GetRedis())
	}

	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo, cacheService)
	eventController := events.NewController(eventService)

	events.RegisterRoutes(rg, eventController, r.config)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.notifier)
	bookingController := bookings.NewController(bookingService)

	bookings.RegisterRoutes(rg, bookingController, r.config)
}

func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	gateway := payments.NewStripeGateway(&r.config.Stripe)
	paymentService := payments.NewService(paymentRepo, gateway, r.notifier)
	paymentController := payments.NewController(paymentService)

	payments.RegisterRoutes(rg, paymentController, r.config)
}
