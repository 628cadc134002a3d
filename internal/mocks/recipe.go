package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/service"
	"github.com/nutricoach/backend/internal/types"
)

// MockRecipeService is a mock implementation of the IRecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, recipe *types.Recipe) (*models.Recipe, *types.ValidationResult, error) {
	args := m.Called(ctx, userID, recipe)
	var row *models.Recipe
	if args.Get(0) != nil {
		row = args.Get(0).(*models.Recipe)
	}
	var validation *types.ValidationResult
	if args.Get(1) != nil {
		validation = args.Get(1).(*types.ValidationResult)
	}
	return row, validation, args.Error(2)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *types.Recipe) (*models.Recipe, *types.ValidationResult, error) {
	args := m.Called(ctx, id, recipe)
	var row *models.Recipe
	if args.Get(0) != nil {
		row = args.Get(0).(*models.Recipe)
	}
	var validation *types.ValidationResult
	if args.Get(1) != nil {
		validation = args.Get(1).(*types.ValidationResult)
	}
	return row, validation, args.Error(2)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, timingCategory string) ([]*models.Recipe, error) {
	args := m.Called(ctx, userID, timingCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) SearchRecipes(ctx context.Context, userID uuid.UUID, query string) ([]*models.Recipe, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) SearchPersonalized(ctx context.Context, userID uuid.UUID, query string, profile *types.IntelligenceProfile) ([]service.ScoredRecipe, error) {
	args := m.Called(ctx, userID, query, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ScoredRecipe), args.Error(1)
}
