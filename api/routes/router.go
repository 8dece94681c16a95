// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"umrahcore/internal/bookings"
	"umrahcore/internal/commissions"
	"umrahcore/internal/departures"
	"umrahcore/internal/notifications"
	"umrahcore/internal/payments"
	"umrahcore/internal/rooming"
	"umrahcore/internal/shared/config"
	"umrahcore/internal/shared/database"
	"umrahcore/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	tx       database.Transactor
	notifier *notifications.Notifier

	// Shared services, wired in dependency order
	departureService  departures.Service
	commissionService commissions.Service
	bookingService    bookings.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier *notifications.Notifier) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		tx:       database.NewTransactor(db.GetPostgreSQL(), cfg.Persistence),
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupDepartureRoutes(api)
		r.setupCommissionRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupRoomingRoutes(api)
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
				"service":   "umrah-core",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "umrah-core",
			"cache":     r.db.GetRedis() != nil,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupDepartureRoutes(rg *gin.RouterGroup) {
	var cacheService cache.Service
	if rdb := r.db.GetRedis(); rdb != nil {
		cacheService = cache.NewService(rdb)
	}

	repo := departures.NewRepository(r.db.GetPostgreSQL())
	r.departureService = departures.NewService(repo, r.tx, cacheService, r.config.Redis.AvailabilityTTL)
	departures.SetupDepartureRoutes(rg, departures.NewController(r.departureService))
}

func (r *Router) setupCommissionRoutes(rg *gin.RouterGroup) {
	repo := commissions.NewRepository(r.db.GetPostgreSQL())
	r.commissionService = commissions.NewService(repo, r.tx)
	commissions.SetupCommissionRoutes(rg, commissions.NewController(r.commissionService))
}

// setupBookingRoutes needs the departure and commission services
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	repo := bookings.NewRepository(r.db.GetPostgreSQL())
	r.bookingService = bookings.NewService(
		repo,
		r.tx,
		r.departureService,
		commissions.NewBookingHookAdapter(r.commissionService),
		r.notifier,
	)
	bookings.SetupBookingRoutes(rg, bookings.NewController(r.bookingService))
}

// setupPaymentRoutes credits verified payments through the booking service
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	repo := payments.NewRepository(r.db.GetPostgreSQL())
	service := payments.NewService(repo, r.tx, r.bookingService, r.notifier)
	payments.SetupPaymentRoutes(rg, payments.NewController(service))
}

func (r *Router) setupRoomingRoutes(rg *gin.RouterGroup) {
	repo := rooming.NewRepository(r.db.GetPostgreSQL())
	service := rooming.NewService(repo, r.tx)
	rooming.SetupRoomingRoutes(rg, rooming.NewController(service))
}
