package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/internal/middleware"
	"github.com/nutricoach/backend/internal/service"
	"github.com/nutricoach/backend/internal/types"
)

// PlanningHandler groups the meal-prep support endpoints: shopping lists,
// prep scheduling and progress tracking.
type PlanningHandler struct {
	shoppingService service.IShoppingService
	plannerService  service.IPlannerService
	progressService service.IProgressService
	authService     service.IAuthService
}

func NewPlanningHandler(shoppingService service.IShoppingService, plannerService service.IPlannerService, progressService service.IProgressService, authService service.IAuthService) *PlanningHandler {
	return &PlanningHandler{
		shoppingService: shoppingService,
		plannerService:  plannerService,
		progressService: progressService,
		authService:     authService,
	}
}

func (h *PlanningHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("")
	group.Use(middleware.AuthMiddleware(h.authService))
	{
		group.POST("/shopping-list", h.BuildShoppingList)
		group.POST("/planner", h.PlanPrep)
		group.POST("/progress", h.LogProgress)
		group.GET("/progress/trend", h.ProgressTrend)
	}
}

func (h *PlanningHandler) BuildShoppingList(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one recipe ID is required"})
		return
	}

	list, err := h.shoppingService.BuildList(c.Request.Context(), userID, req.RecipeIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no matching recipes found"})
			return
		}
		log.Printf("Shopping list build failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build shopping list"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *PlanningHandler) PlanPrep(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.PlannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe IDs and time slots are required"})
		return
	}

	plan, err := h.plannerService.Plan(c.Request.Context(), userID, req.RecipeIDs, req.Slots)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no matching recipes found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to plan preparation"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanningHandler) LogProgress(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.ProgressEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.progressService.LogEntry(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *PlanningHandler) ProgressTrend(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	days, _ := strconv.Atoi(c.Query("days"))
	trend, err := h.progressService.Trend(c.Request.Context(), userID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute trend"})
		return
	}

	c.JSON(http.StatusOK, trend)
}
