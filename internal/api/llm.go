package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutricoach/backend/internal/middleware"
	"github.com/nutricoach/backend/internal/service"
	"github.com/nutricoach/backend/internal/types"
)

type LLMHandler struct {
	llmService        service.ILLMService
	recipeService     service.IRecipeService
	profileService    service.IProfileService
	authService       service.IAuthService
	generationLimiter *middleware.RateLimiter
}

func NewLLMHandler(llmService *service.LLMService, recipeService service.IRecipeService, profileService service.IProfileService, authService service.IAuthService, generationLimiter *middleware.RateLimiter) *LLMHandler {
	h := &LLMHandler{
		recipeService:     recipeService,
		profileService:    profileService,
		authService:       authService,
		generationLimiter: generationLimiter,
	}
	if llmService != nil {
		h.llmService = llmService
	}
	return h
}

func (h *LLMHandler) RegisterRoutes(router *gin.RouterGroup) {
	llm := router.Group("/llm")
	llm.Use(middleware.AuthMiddleware(h.authService))
	{
		query := llm.Group("")
		if h.generationLimiter != nil {
			query.Use(h.generationLimiter.RateLimitMiddleware())
		}
		query.POST("/query", h.Query)

		llm.GET("/candidates/:id", h.GetCandidate)
		llm.POST("/candidates/:id/accept", h.AcceptCandidate)
		llm.DELETE("/candidates/:id", h.DiscardCandidate)
	}
}

// Query asks the model for a recipe, steers the prompt with the user's
// learned preferences, and runs the result through the validator before
// returning it. The candidate is cached so the user can accept it later.
func (h *LLMHandler) Query(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if h.llmService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe generation is not configured"})
		return
	}

	var req types.GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.TimingCategory != "" && !types.ValidTimingCategory(req.TimingCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timing_category"})
		return
	}

	intel, prefs, err := h.profileService.Intelligence(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load preferences"})
		return
	}

	candidate, err := h.llmService.GenerateValidatedRecipe(c.Request.Context(), userID, req.Query, req.TimingCategory, prefs, intel)
	if err != nil {
		if errors.Is(err, service.ErrNoAcceptableRecipe) && candidate != nil {
			// Best attempt failed validation; hand it back with its scores
			// so the user can decide.
			c.JSON(http.StatusOK, gin.H{"candidate": candidate, "accepted": false})
			return
		}
		log.Printf("Recipe generation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidate": candidate, "accepted": true})
}

func (h *LLMHandler) GetCandidate(c *gin.Context) {
	if h.llmService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe generation is not configured"})
		return
	}

	candidate, err := h.llmService.GetCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// AcceptCandidate persists a cached candidate as one of the user's recipes.
func (h *LLMHandler) AcceptCandidate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if h.llmService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe generation is not configured"})
		return
	}

	candidate, err := h.llmService.GetCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}
	if candidate.UserID != userID.String() {
		c.JSON(http.StatusForbidden, gin.H{"error": "candidate belongs to another user"})
		return
	}

	row, validation, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, &candidate.Recipe)
	if err != nil {
		log.Printf("Candidate acceptance failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}

	if err := h.llmService.DeleteCandidate(c.Request.Context(), candidate.ID); err != nil {
		log.Printf("Warning: failed to delete accepted candidate %s: %v", candidate.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": row, "validation": validation})
}

func (h *LLMHandler) DiscardCandidate(c *gin.Context) {
	if h.llmService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe generation is not configured"})
		return
	}

	if err := h.llmService.DeleteCandidate(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to discard candidate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "candidate discarded"})
}
