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

type ProfileHandler struct {
	profileService service.IProfileService
	authService    service.IAuthService
	learner        *service.PreferenceLearner
	exportService  service.IExportService
}

func NewProfileHandler(profileService service.IProfileService, authService service.IAuthService, learner *service.PreferenceLearner, exportService *service.ExportService) *ProfileHandler {
	h := &ProfileHandler{
		profileService: profileService,
		authService:    authService,
		learner:        learner,
	}
	if exportService != nil {
		h.exportService = exportService
	}
	return h
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.authService))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/intelligence", h.GetIntelligence)
		profile.POST("/export", h.ExportProfile)
		profile.POST("/logout", h.Logout)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		log.Printf("Profile update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetIntelligence returns the learned preference profile together with the
// derived intelligence score.
func (h *ProfileHandler) GetIntelligence(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	intel, prefs, err := h.profileService.Intelligence(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch intelligence profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"intelligence_score":  h.learner.IntelligenceScore(intel),
		"basic_statistics":    intel.Statistics,
		"learned_preferences": intel.Preferences,
		"preferences":         prefs,
	})
}

func (h *ProfileHandler) ExportProfile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if h.exportService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profile export is not configured"})
		return
	}

	result, err := h.exportService.ExportProfile(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Profile export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export profile"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProfileHandler) Logout(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.profileService.Logout(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
