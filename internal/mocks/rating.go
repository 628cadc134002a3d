package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// MockRatingService is a mock implementation of the IRatingService interface
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) RateRecipe(ctx context.Context, userID, recipeID uuid.UUID, rating int, feedback string) (*types.LearningResult, error) {
	args := m.Called(ctx, userID, recipeID, rating, feedback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.LearningResult), args.Error(1)
}

func (m *MockRatingService) ListRatings(ctx context.Context, userID uuid.UUID, limit int) ([]*models.RecipeRating, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RecipeRating), args.Error(1)
}
