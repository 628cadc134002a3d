package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// ILLMService defines the interface for recipe generation operations
type ILLMService interface {
	GenerateRecipe(ctx context.Context, query, timingCategory string, prefs *types.BasePreferences, profile *types.IntelligenceProfile) (string, error)
	GenerateValidatedRecipe(ctx context.Context, userID uuid.UUID, query, timingCategory string, prefs *types.BasePreferences, profile *types.IntelligenceProfile) (*RecipeCandidate, error)
	EstimateMacros(ctx context.Context, ingredients []types.Ingredient) (*types.Macros, error)
	SaveCandidate(ctx context.Context, candidate *RecipeCandidate) error
	GetCandidate(ctx context.Context, id string) (*RecipeCandidate, error)
	DeleteCandidate(ctx context.Context, id string) error
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(name, email, password, username string) (string, error)
	Login(email, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error)
	Intelligence(ctx context.Context, userID uuid.UUID) (*types.IntelligenceProfile, *types.BasePreferences, error)
	SaveIntelligence(ctx context.Context, userID uuid.UUID, intel *types.IntelligenceProfile, prefs *types.BasePreferences) error
	Logout(ctx context.Context, userID uuid.UUID) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, recipe *types.Recipe) (*models.Recipe, *types.ValidationResult, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *types.Recipe) (*models.Recipe, *types.ValidationResult, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	ListRecipes(ctx context.Context, userID uuid.UUID, timingCategory string) ([]*models.Recipe, error)
	SearchRecipes(ctx context.Context, userID uuid.UUID, query string) ([]*models.Recipe, error)
	SearchPersonalized(ctx context.Context, userID uuid.UUID, query string, profile *types.IntelligenceProfile) ([]ScoredRecipe, error)
}

// IRatingService defines the interface for rating operations
type IRatingService interface {
	RateRecipe(ctx context.Context, userID, recipeID uuid.UUID, rating int, feedback string) (*types.LearningResult, error)
	ListRatings(ctx context.Context, userID uuid.UUID, limit int) ([]*models.RecipeRating, error)
}

// IShoppingService defines the interface for shopping list aggregation
type IShoppingService interface {
	BuildList(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (*ShoppingList, error)
}

// IPlannerService defines the interface for prep scheduling
type IPlannerService interface {
	Plan(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID, slots []types.PlannerSlot) (*PrepPlan, error)
}

// IProgressService defines the interface for progress tracking
type IProgressService interface {
	LogEntry(ctx context.Context, userID uuid.UUID, req *types.ProgressEntryRequest) (*models.ProgressEntry, error)
	Trend(ctx context.Context, userID uuid.UUID, days int) (*ProgressTrend, error)
}

// IExportService defines the interface for profile backups
type IExportService interface {
	ExportProfile(ctx context.Context, userID uuid.UUID) (*ExportResult, error)
}
