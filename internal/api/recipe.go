package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/internal/middleware"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/service"
	"github.com/nutricoach/backend/internal/types"
)

type RecipeHandler struct {
	recipeService  service.IRecipeService
	ratingService  service.IRatingService
	profileService service.IProfileService
	validator      *service.RecipeValidator
	authService    service.IAuthService
	ratingLimiter  *middleware.RateLimiter
}

func NewRecipeHandler(recipeService service.IRecipeService, ratingService service.IRatingService, profileService service.IProfileService, validator *service.RecipeValidator, authService service.IAuthService, ratingLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:  recipeService,
		ratingService:  ratingService,
		profileService: profileService,
		validator:      validator,
		authService:    authService,
		ratingLimiter:  ratingLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(h.authService))
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.CreateRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/validate", h.ValidateRecipe)

		rate := recipes.Group("")
		if h.ratingLimiter != nil {
			rate.Use(h.ratingLimiter.RateLimitMiddleware())
		}
		rate.POST("/:id/rate", h.RateRecipe)
	}

	ratings := router.Group("/ratings")
	ratings.Use(middleware.AuthMiddleware(h.authService))
	ratings.GET("", h.ListRatings)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), userID, c.Query("timing_category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// SearchRecipes searches by free text. With personalized=true the hits are
// re-ranked by the user's learned preferences.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	query := c.Query("q")
	if c.Query("personalized") == "true" {
		intel, _, err := h.profileService.Intelligence(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load preferences"})
			return
		}
		scored, err := h.recipeService.SearchPersonalized(c.Request.Context(), userID, query, intel)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search recipes"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recipes": scored})
		return
	}

	recipes, err := h.recipeService.SearchRecipes(c.Request.Context(), userID, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, ok := h.loadOwnedRecipe(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var recipe types.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if recipe.TimingCategory != "" && !types.ValidTimingCategory(recipe.TimingCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timing_category"})
		return
	}

	row, validation, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, &recipe)
	if err != nil {
		log.Printf("Recipe creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": row, "validation": validation})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	stored, ok := h.loadOwnedRecipe(c)
	if !ok {
		return
	}

	var recipe types.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if recipe.TimingCategory != "" && !types.ValidTimingCategory(recipe.TimingCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timing_category"})
		return
	}

	row, validation, err := h.recipeService.UpdateRecipe(c.Request.Context(), stored.ID, &recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": row, "validation": validation})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	stored, ok := h.loadOwnedRecipe(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), stored.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recipe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

// ValidateRecipe scores a recipe without storing it.
func (h *RecipeHandler) ValidateRecipe(c *gin.Context) {
	var recipe types.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.validator.Validate(&recipe))
}

func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe ID"})
		return
	}

	var req types.RateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}

	result, err := h.ratingService.RateRecipe(c.Request.Context(), userID, recipeID, req.Rating, req.Feedback)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		log.Printf("Rating failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record rating"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) ListRatings(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	ratings, err := h.ratingService.ListRatings(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ratings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

// loadOwnedRecipe fetches the recipe in the path and checks it belongs to
// the authenticated user. It writes the error response itself.
func (h *RecipeHandler) loadOwnedRecipe(c *gin.Context) (*models.Recipe, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe ID"})
		return nil, false
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return nil, false
	}
	if recipe.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "recipe belongs to another user"})
		return nil, false
	}
	return recipe, true
}
