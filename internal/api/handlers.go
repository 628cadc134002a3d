package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/config"
	"github.com/nutricoach/backend/internal/middleware"
	"github.com/nutricoach/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "NutriCoach API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes wires every handler into the router. Redis and S3 are
// optional: without Redis the rate limiters are skipped, without S3 the
// export endpoint reports the feature as unavailable.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config, cfg *config.Config) {
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	tax := service.DefaultTaxonomy()
	validator := service.NewRecipeValidator(tax)
	learner := service.NewPreferenceLearner(tax)

	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	recipeService := service.NewRecipeService(db, validator, learner)
	ratingService := service.NewRatingService(db, learner, profileService)
	shoppingService := service.NewShoppingService(db, tax)
	plannerService := service.NewPlannerService(db)
	progressService := service.NewProgressService(db)

	llmService, err := service.NewLLMService(validator, learner)
	if err != nil {
		log.Printf("Warning: LLM service unavailable: %v", err)
		llmService = nil
	}

	var exportService *service.ExportService
	if s3Config != nil {
		exportService = service.NewExportService(db, s3Config)
	}

	var generationLimiter, ratingLimiter *middleware.RateLimiter
	if redisClient != nil {
		generationLimiter = middleware.NewGenerationRateLimiter(redisClient)
		ratingLimiter = middleware.NewRatingRateLimiter(redisClient)
	}

	v1 := router.Group("/api/v1")

	NewAuthHandler(authService).RegisterRoutes(v1)
	NewProfileHandler(profileService, authService, learner, exportService).RegisterRoutes(v1)
	NewRecipeHandler(recipeService, ratingService, profileService, validator, authService, ratingLimiter).RegisterRoutes(v1)
	NewLLMHandler(llmService, recipeService, profileService, authService, generationLimiter).RegisterRoutes(v1)
	NewPlanningHandler(shoppingService, plannerService, progressService, authService).RegisterRoutes(v1)
}

// userIDFromContext pulls the authenticated user out of the gin context.
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
