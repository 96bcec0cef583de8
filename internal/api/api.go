package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/producthelper/backend/config"
	"github.com/producthelper/backend/internal/database"
	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/middleware"
	"github.com/producthelper/backend/internal/service"
)

// SetupAPI wires services and handlers onto /api/v1. redisClient and
// s3cfg may be nil: without Redis mutations run unlimited, without S3
// image payloads are stored as-is.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, s3cfg *config.S3Config, jwtSecret string, log *logger.Logger) {
	authService := service.NewAuthService(db, jwtSecret, log)
	catalogService := service.NewCatalogService(db, log)

	var images service.ImageStore
	if s3cfg != nil {
		images = service.NewImageService(s3cfg, log)
	}
	recipeService := service.NewRecipeService(db, images, log)
	viewService := service.NewViewService(db, log)
	userService := service.NewUserService(db, recipeService, log)

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRecipeMutationRateLimiter(redisClient)
	}

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		NewAuthHandler(authService, log).RegisterRoutes(v1)
		NewCatalogHandler(catalogService, log).RegisterRoutes(v1)
		NewRecipeHandler(recipeService, viewService, service.NewPDFRenderer(), log).
			RegisterRoutes(v1, authService, limiter)
		NewUserHandler(userService, log).RegisterRoutes(v1, authService)
	}
}
