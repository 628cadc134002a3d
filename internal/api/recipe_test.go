package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/internal/mocks"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/service"
	"github.com/nutricoach/backend/internal/types"
)

type recipeHandlerEnv struct {
	router  *gin.Engine
	recipes *mocks.MockRecipeService
	ratings *mocks.MockRatingService
	userID  uuid.UUID
}

func setupRecipeRouter(t *testing.T) *recipeHandlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &recipeHandlerEnv{
		recipes: new(mocks.MockRecipeService),
		ratings: new(mocks.MockRatingService),
		userID:  uuid.New(),
	}

	authService := new(mocks.MockAuthService)
	authService.On("ValidateToken", "valid-token").
		Return(&types.TokenClaims{UserID: env.userID, Username: "ana"}, nil)
	authService.On("ValidateToken", mock.Anything).
		Return(nil, fmt.Errorf("token is malformed"))

	profileService := new(mocks.MockProfileService)
	validator := service.NewRecipeValidator(service.DefaultTaxonomy())

	env.router = gin.New()
	v1 := env.router.Group("/api/v1")
	NewRecipeHandler(env.recipes, env.ratings, profileService, validator, authService, nil).RegisterRoutes(v1)
	return env
}

func authedRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecipeHandler_Auth(t *testing.T) {
	env := setupRecipeRouter(t)

	t.Run("missing token yields 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token yields 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRecipeHandler_ValidateRecipe(t *testing.T) {
	env := setupRecipeRouter(t)

	recipe := types.Recipe{
		Name:            "Pollo con arroz",
		TimingCategory:  types.TimingPostWorkout,
		Difficulty:      2,
		PrepTimeMinutes: 25,
		Servings:        2,
		Ingredients: []types.Ingredient{
			{Name: "pechuga de pollo", Quantity: 200, Unit: "g", Category: "proteinas"},
			{Name: "arroz", Quantity: 150, Unit: "g", Category: "carbohidratos"},
			{Name: "brocoli", Quantity: 100, Unit: "g", Category: "verduras"},
		},
		Steps:        []string{"Cocer", "Plancha", "Emplatar"},
		Macros:       types.Macros{Calories: 400, Protein: 40, Carbs: 45, Fat: 8, Fiber: 6},
		MealPrepTips: []string{"Aguanta 3 días", "Congela bien"},
	}

	w := authedRequest(t, env.router, http.MethodPost, "/api/v1/recipes/validate", recipe)
	require.Equal(t, http.StatusOK, w.Code)

	var result types.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.IsValid)
	assert.GreaterOrEqual(t, result.OverallScore, service.AcceptableScore)
}

func TestRecipeHandler_RateRecipe(t *testing.T) {
	t.Run("a successful learning result comes back 200", func(t *testing.T) {
		env := setupRecipeRouter(t)
		recipeID := uuid.New()
		env.ratings.On("RateRecipe", mock.Anything, env.userID, recipeID, 5, "rica").
			Return(&types.LearningResult{Success: true, Rating: 5, TotalRatings: 1}, nil)

		w := authedRequest(t, env.router, http.MethodPost, "/api/v1/recipes/"+recipeID.String()+"/rate",
			types.RateRecipeRequest{Rating: 5, Feedback: "rica"})

		assert.Equal(t, http.StatusOK, w.Code)
		env.ratings.AssertExpectations(t)
	})

	t.Run("a rejected rating comes back 422", func(t *testing.T) {
		env := setupRecipeRouter(t)
		recipeID := uuid.New()
		env.ratings.On("RateRecipe", mock.Anything, env.userID, recipeID, 3, "").
			Return(&types.LearningResult{Success: false, Reason: "perfil no disponible"}, nil)

		w := authedRequest(t, env.router, http.MethodPost, "/api/v1/recipes/"+recipeID.String()+"/rate",
			types.RateRecipeRequest{Rating: 3})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("an out-of-range rating never reaches the service", func(t *testing.T) {
		env := setupRecipeRouter(t)
		recipeID := uuid.New()

		w := authedRequest(t, env.router, http.MethodPost, "/api/v1/recipes/"+recipeID.String()+"/rate",
			gin.H{"rating": 6})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env.ratings.AssertNotCalled(t, "RateRecipe")
	})

	t.Run("rating a missing recipe yields 404", func(t *testing.T) {
		env := setupRecipeRouter(t)
		recipeID := uuid.New()
		env.ratings.On("RateRecipe", mock.Anything, env.userID, recipeID, 4, "").
			Return(nil, fmt.Errorf("failed to load recipe: %w", gorm.ErrRecordNotFound))

		w := authedRequest(t, env.router, http.MethodPost, "/api/v1/recipes/"+recipeID.String()+"/rate",
			types.RateRecipeRequest{Rating: 4})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRecipeHandler_ListRecipes(t *testing.T) {
	env := setupRecipeRouter(t)
	env.recipes.On("ListRecipes", mock.Anything, env.userID, types.TimingDinner).
		Return([]*models.Recipe{}, nil)

	w := authedRequest(t, env.router, http.MethodGet, "/api/v1/recipes?timing_category=cena", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env.recipes.AssertExpectations(t)
}

func TestRecipeHandler_CreateRecipe_TimingCategory(t *testing.T) {
	env := setupRecipeRouter(t)

	recipe := types.Recipe{
		Name:           "Avena nocturna",
		TimingCategory: "merienda_nocturna",
		Ingredients:    []types.Ingredient{{Name: "avena", Quantity: 60, Unit: "g"}},
	}

	w := authedRequest(t, env.router, http.MethodPost, "/api/v1/recipes", recipe)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown timing_category")
	env.recipes.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything, mock.Anything)
}
