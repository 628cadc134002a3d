package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// RatingService persists recipe ratings and feeds them through the
// preference learner.
type RatingService struct {
	db       *gorm.DB
	learner  *PreferenceLearner
	profiles *ProfileService
}

func NewRatingService(db *gorm.DB, learner *PreferenceLearner, profiles *ProfileService) *RatingService {
	return &RatingService{
		db:       db,
		learner:  learner,
		profiles: profiles,
	}
}

// RateRecipe records a rating and applies it to the user's intelligence
// profile. The rating row and the updated profile are written together;
// if the learner rejects the rating nothing is stored and the result
// carries the reason.
func (s *RatingService) RateRecipe(ctx context.Context, userID, recipeID uuid.UUID, rating int, feedback string) (*types.LearningResult, error) {
	var row models.Recipe
	if err := s.db.WithContext(ctx).First(&row, "id = ?", recipeID).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	intel, prefs, err := s.profiles.Intelligence(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, updatedPrefs, result := s.learner.Learn(intel, prefs, row.ToType(), rating, feedback)
	if !result.Success {
		return result, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := &models.RecipeRating{
			RecipeID: recipeID,
			UserID:   userID,
			Rating:   rating,
			Feedback: feedback,
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to store rating: %w", err)
		}

		update := tx.Model(&models.UserProfile{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"intelligence": models.JSONBIntelligence{Profile: updated},
				"preferences":  models.JSONBPreferences{BasePreferences: *updatedPrefs},
			})
		if update.Error != nil {
			return fmt.Errorf("failed to save intelligence profile: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			return ErrProfileNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListRatings returns a user's ratings, newest first.
func (s *RatingService) ListRatings(ctx context.Context, userID uuid.UUID, limit int) ([]*models.RecipeRating, error) {
	if limit <= 0 {
		limit = 50
	}
	var ratings []*models.RecipeRating
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}
