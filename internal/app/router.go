package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"campusride/internal/auth"
	"campusride/internal/domain"
	"campusride/internal/handler"
	"campusride/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler    *handler.AuthHandler
	RideHandler    *handler.RideHandler
	RatingHandler  *handler.RatingHandler
	ProfileHandler *handler.ProfileHandler
	AdminHandler   *handler.AdminHandler
	Tokens         *auth.TokenIssuer
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	UploadDir      string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Profile photos.
	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}

	authenticated := middleware.Authenticate(deps.Tokens)
	passengerOnly := middleware.RequireRole(domain.RolePassenger)
	riderOnly := middleware.RequireRole(domain.RoleRider)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Auth routes.
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/passenger/register", deps.AuthHandler.RegisterPassenger)
			authGroup.POST("/passenger/login", deps.AuthHandler.LoginPassenger)
			authGroup.POST("/rider/register", deps.AuthHandler.RegisterRider)
			authGroup.POST("/rider/login", deps.AuthHandler.LoginRider)
			authGroup.POST("/admin/login", deps.AuthHandler.LoginAdmin)
		}

		// Own-account routes.
		me := v1.Group("/me", authenticated)
		{
			me.GET("", deps.ProfileHandler.GetMe)
			me.POST("/photo", deps.ProfileHandler.UploadPhoto)
			me.GET("/ratings", deps.ProfileHandler.MyRatings)
		}

		// Ride routes.
		rides := v1.Group("/rides", authenticated)
		{
			rides.POST("/single", passengerOnly, deps.RideHandler.CreateSingle)
			rides.POST("/shared", passengerOnly, deps.RideHandler.CreateShared)
			rides.POST("/join", passengerOnly, deps.RideHandler.Join)
			rides.GET("/available/single", riderOnly, deps.RideHandler.ListAvailableSingle)
			rides.GET("/available/shared", riderOnly, deps.RideHandler.ListAvailableShared)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/accept", riderOnly, deps.RideHandler.Accept)
			rides.POST("/:id/cancel", passengerOnly, deps.RideHandler.Cancel)
			rides.POST("/:id/complete", riderOnly, deps.RideHandler.Complete)
			rides.POST("/:id/rate", deps.RatingHandler.Rate)
		}

		// Ride history.
		v1.GET("/passenger/rides", authenticated, passengerOnly, deps.ProfileHandler.PassengerRides)
		v1.GET("/rider/rides", authenticated, riderOnly, deps.ProfileHandler.RiderRides)

		// Admin routes.
		admin := v1.Group("/admin", authenticated, adminOnly)
		{
			admin.GET("/users", deps.AdminHandler.ListUsers)
			admin.GET("/rides", deps.AdminHandler.ListRides)
			admin.GET("/stats", deps.AdminHandler.Stats)
		}
	}

	return router
}
