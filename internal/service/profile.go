package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile updates a user's profile. Nil request fields are left
// untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		profile.Username = req.Username
	}
	if req.WeightKg != nil {
		profile.WeightKg = *req.WeightKg
	}
	if req.HeightCm != nil {
		profile.HeightCm = *req.HeightCm
	}
	if req.Age != nil {
		profile.Age = *req.Age
	}
	if req.Sex != nil {
		profile.Sex = *req.Sex
	}
	if req.ActivityLevel != nil {
		profile.ActivityLevel = *req.ActivityLevel
	}
	if req.Goal != nil {
		profile.Goal = *req.Goal
	}
	if req.TrainingDays != nil {
		profile.TrainingDays = models.JSONBStringArray(req.TrainingDays)
	}
	if req.Preferences != nil {
		profile.Preferences = models.JSONBPreferences{BasePreferences: *req.Preferences}
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// Intelligence returns the user's learned profile and base preferences.
// A user who has never rated anything gets a fresh zero-valued profile.
func (s *ProfileService) Intelligence(ctx context.Context, userID uuid.UUID) (*types.IntelligenceProfile, *types.BasePreferences, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	intel := profile.Intelligence.Profile
	if intel == nil {
		intel = types.NewIntelligenceProfile()
	}
	prefs := profile.Preferences.BasePreferences
	if prefs.LikedFoods == nil {
		prefs = *types.NewBasePreferences()
	}
	return intel, &prefs, nil
}

// SaveIntelligence persists both halves of a learning result in a single
// write so a failure leaves the stored profile exactly as it was.
func (s *ProfileService) SaveIntelligence(ctx context.Context, userID uuid.UUID, intel *types.IntelligenceProfile, prefs *types.BasePreferences) error {
	result := s.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"intelligence": models.JSONBIntelligence{Profile: intel},
			"preferences":  models.JSONBPreferences{BasePreferences: *prefs},
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save intelligence profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// Logout handles user logout. Token invalidation is client-side.
func (s *ProfileService) Logout(ctx context.Context, userID uuid.UUID) error {
	return nil
}
