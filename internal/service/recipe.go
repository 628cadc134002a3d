package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// RecipeService handles recipe persistence and search.
type RecipeService struct {
	db        *gorm.DB
	validator *RecipeValidator
	learner   *PreferenceLearner
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, validator *RecipeValidator, learner *PreferenceLearner) *RecipeService {
	return &RecipeService{
		db:        db,
		validator: validator,
		learner:   learner,
	}
}

// CreateRecipe validates and stores a recipe. The stored row keeps the
// overall validation score so searches can filter on it later.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, recipe *types.Recipe) (*models.Recipe, *types.ValidationResult, error) {
	validation := s.validator.Validate(recipe)

	row := &models.Recipe{UserID: userID}
	row.FromType(recipe)
	row.ValidationScore = validation.OverallScore
	row.Embedding = GenerateEmbedding(RecipeEmbeddingText(recipe.Name, recipe.TimingCategory, ingredientNames(recipe.Ingredients)))

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return row, validation, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe replaces the recipe content, re-validates it and refreshes
// the embedding.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *types.Recipe) (*models.Recipe, *types.ValidationResult, error) {
	var row models.Recipe
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}

	validation := s.validator.Validate(recipe)
	row.FromType(recipe)
	row.ValidationScore = validation.OverallScore
	row.Embedding = GenerateEmbedding(RecipeEmbeddingText(recipe.Name, recipe.TimingCategory, ingredientNames(recipe.Ingredients)))

	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return &row, validation, nil
}

// DeleteRecipe deletes a recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// ListRecipes lists recipes for a user, optionally filtered by timing category.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, timingCategory string) ([]*models.Recipe, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if timingCategory != "" {
		query = query.Where("timing_category = ?", timingCategory)
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}

// SearchRecipes searches recipes by free text. On Postgres it combines
// embedding distance with keyword matching; on other dialects it falls back
// to keyword search only.
func (s *RecipeService) SearchRecipes(ctx context.Context, userID uuid.UUID, query string) ([]*models.Recipe, error) {
	dbQuery := s.db.WithContext(ctx).Where("recipes.user_id = ?", userID)

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			subQuery := s.db.Model(&models.Recipe{}).
				Select("id, embedding <-> ? as similarity", vec).
				Where("LOWER(name) LIKE ? OR LOWER(timing_category) LIKE ? OR LOWER(ingredients::text) LIKE ?",
					like, like, like)
			dbQuery = dbQuery.Joins("JOIN (?) as search ON recipes.id = search.id", subQuery).
				Order("search.similarity ASC")
		} else {
			dbQuery = dbQuery.Where("LOWER(name) LIKE ? OR LOWER(timing_category) LIKE ? OR LOWER(ingredients) LIKE ?",
				like, like, like)
		}
	}

	var recipes []models.Recipe
	if err := dbQuery.Find(&recipes).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}

// ScoredRecipe pairs a stored recipe with its personalized score for the
// requesting user.
type ScoredRecipe struct {
	Recipe            *models.Recipe `json:"recipe"`
	PersonalizedScore float64        `json:"personalized_score"`
}

// SearchPersonalized runs SearchRecipes and re-ranks the hits by the user's
// learned preferences. Without an intelligence profile every recipe scores
// the neutral 0.5 and the search order is preserved.
func (s *RecipeService) SearchPersonalized(ctx context.Context, userID uuid.UUID, query string, profile *types.IntelligenceProfile) ([]ScoredRecipe, error) {
	recipes, err := s.SearchRecipes(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredRecipe, len(recipes))
	for i, row := range recipes {
		scored[i] = ScoredRecipe{
			Recipe:            row,
			PersonalizedScore: s.learner.PersonalizedScore(row.ToType(), profile),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PersonalizedScore > scored[j].PersonalizedScore
	})
	return scored, nil
}

func ingredientNames(ingredients []types.Ingredient) []string {
	names := make([]string, len(ingredients))
	for i, ing := range ingredients {
		names[i] = ing.Name
	}
	return names
}
