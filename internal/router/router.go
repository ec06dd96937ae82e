package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/courtsync/concilia-backend/internal/config"
	"github.com/courtsync/concilia-backend/internal/handler"
	"github.com/courtsync/concilia-backend/internal/middleware"
	"github.com/courtsync/concilia-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Session *handler.SessionHandler
	Review  *handler.ReviewHandler
	Catalog *handler.CatalogHandler
	Refresh *handler.RefreshHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for mutation routes: review appends hit the sheet
	// store's write quota, so keep bursts off it (20 per minute per IP).
	writeLimiter := middleware.NewRateLimiter(20, time.Minute)

	// ─── API v1 ────────────────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.Brotli())
	{
		api.GET("/sessions", handlers.Session.ListSessions)
		// The catalog only changes on refresh; let clients cache it briefly.
		api.GET("/catalog", middleware.CacheControl(300), handlers.Catalog.GetCatalog)

		api.GET("/reviews", handlers.Review.ListReviews)
		api.POST("/reviews", writeLimiter.Middleware(), handlers.Review.CreateReview)

		api.GET("/reviews/bulk-approve", handlers.Review.PreviewBulkApprove)
		api.POST("/reviews/bulk-approve", writeLimiter.Middleware(), handlers.Review.BulkApprove)

		api.POST("/refresh", handlers.Refresh.Refresh)
	}

	// ─── WebSocket ─────────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/refresh", handlers.WS.RefreshStream)
	}

	return router
}
