package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricoach/backend/internal/types"
)

func testLLMDeps() (*RecipeValidator, *PreferenceLearner) {
	tax := DefaultTaxonomy()
	return NewRecipeValidator(tax), NewPreferenceLearner(tax)
}

func TestNewLLMService(t *testing.T) {
	originalKey := os.Getenv("DEEPSEEK_API_KEY")
	defer os.Setenv("DEEPSEEK_API_KEY", originalKey)

	validator, learner := testLLMDeps()

	t.Run("should create service with API key", func(t *testing.T) {
		os.Setenv("DEEPSEEK_API_KEY", "test-api-key")

		service, err := NewLLMService(validator, learner)

		require.NoError(t, err)
		assert.NotNil(t, service)
		assert.NotNil(t, service.client)
		assert.NotNil(t, service.redis)
	})

	t.Run("should fail without API key", func(t *testing.T) {
		os.Unsetenv("DEEPSEEK_API_KEY")
		os.Unsetenv("DEEPSEEK_API_KEY_FILE")

		service, err := NewLLMService(validator, learner)

		assert.Error(t, err)
		assert.Nil(t, service)
		assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
	})
}

func TestParseRecipeResponse(t *testing.T) {
	recipeJSON := `{
		"name": "Tortilla de claras",
		"timing_category": "desayuno",
		"difficulty": 1,
		"prep_time_minutes": 10,
		"servings": 1,
		"ingredients": [{"name": "clara de huevo", "quantity": 150, "unit": "g", "category": "proteinas"}],
		"steps": ["Batir", "Cuajar en la sartén"],
		"macros": {"calories": 120, "protein_g": 18, "carbs_g": 2, "fat_g": 4, "fiber_g": 0}
	}`

	t.Run("parses the receta wrapper", func(t *testing.T) {
		recipe, err := ParseRecipeResponse(fmt.Sprintf(`{"receta": %s}`, recipeJSON))

		require.NoError(t, err)
		assert.Equal(t, "Tortilla de claras", recipe.Name)
		assert.Equal(t, types.TimingBreakfast, recipe.TimingCategory)
		require.Len(t, recipe.Ingredients, 1)
		assert.Equal(t, 150.0, recipe.Ingredients[0].Quantity)
		assert.Equal(t, 18.0, recipe.Macros.Protein)
	})

	t.Run("first entry of a recetas array wins", func(t *testing.T) {
		content := fmt.Sprintf(`{"recetas": [%s, {"name": "otra", "ingredients": [{"name": "x"}]}]}`, recipeJSON)

		recipe, err := ParseRecipeResponse(content)

		require.NoError(t, err)
		assert.Equal(t, "Tortilla de claras", recipe.Name)
	})

	t.Run("accepts a bare recipe object", func(t *testing.T) {
		recipe, err := ParseRecipeResponse(recipeJSON)

		require.NoError(t, err)
		assert.Equal(t, "Tortilla de claras", recipe.Name)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		_, err := ParseRecipeResponse("this is not JSON")
		assert.ErrorIs(t, err, ErrRecipeParse)
	})

	t.Run("rejects a recipe without a name", func(t *testing.T) {
		_, err := ParseRecipeResponse(`{"receta": {"ingredients": [{"name": "avena"}]}}`)
		assert.ErrorIs(t, err, ErrRecipeParse)
	})

	t.Run("rejects a recipe without ingredients", func(t *testing.T) {
		_, err := ParseRecipeResponse(`{"receta": {"name": "vacía", "ingredients": []}}`)
		assert.ErrorIs(t, err, ErrRecipeParse)
	})

	t.Run("rejects an unrelated JSON object", func(t *testing.T) {
		_, err := ParseRecipeResponse(`{"status": "ok"}`)
		assert.ErrorIs(t, err, ErrRecipeParse)
	})
}

func chatResponse(t *testing.T, content string) string {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	require.NoError(t, err)
	return string(body)
}

func TestLLMService_GenerateRecipe(t *testing.T) {
	validator, learner := testLLMDeps()
	os.Setenv("DEEPSEEK_API_KEY", "test-api-key")
	defer os.Unsetenv("DEEPSEEK_API_KEY")

	t.Run("sends preferences in the prompt", func(t *testing.T) {
		var gotPrompt string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req Request
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Messages, 2)
			gotPrompt = req.Messages[1].Content
			fmt.Fprint(w, chatResponse(t, `{"receta": {"name": "ok", "ingredients": [{"name": "avena"}]}}`))
		}))
		defer server.Close()

		service, err := NewLLMService(validator, learner)
		require.NoError(t, err)
		service.apiURL = server.URL

		prefs := types.NewBasePreferences()
		prefs.Allergies = []string{"lactosa"}
		prefs.CookingMethods = []string{"horno"}

		content, err := service.GenerateRecipe(context.Background(), "cena ligera", types.TimingDinner, prefs, nil)

		require.NoError(t, err)
		assert.NotEmpty(t, content)
		assert.Contains(t, gotPrompt, "cena ligera")
		assert.Contains(t, gotPrompt, "cena")
		assert.Contains(t, gotPrompt, "lactosa")
		assert.Contains(t, gotPrompt, "horno")
	})

	t.Run("propagates API errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer server.Close()

		service, err := NewLLMService(validator, learner)
		require.NoError(t, err)
		service.apiURL = server.URL

		_, err = service.GenerateRecipe(context.Background(), "cena", "", nil, nil)
		assert.Error(t, err)
	})
}

func TestLLMService_GenerateValidatedRecipe(t *testing.T) {
	if os.Getenv("REDIS_HOST") == "" {
		t.Skip("Skipping Redis-dependent test - REDIS_HOST not set")
	}

	validator, learner := testLLMDeps()
	os.Setenv("DEEPSEEK_API_KEY", "test-api-key")
	defer os.Unsetenv("DEEPSEEK_API_KEY")

	goodRecipe := `{"receta": {
		"name": "Pollo con arroz",
		"timing_category": "post_entreno",
		"difficulty": 2,
		"prep_time_minutes": 25,
		"servings": 2,
		"ingredients": [
			{"name": "pechuga de pollo", "quantity": 200, "unit": "g", "category": "proteinas"},
			{"name": "arroz", "quantity": 150, "unit": "g", "category": "carbohidratos"},
			{"name": "brocoli", "quantity": 100, "unit": "g", "category": "verduras"}
		],
		"steps": ["Cocer", "Saltear", "Emplatar"],
		"macros": {"calories": 400, "protein_g": 40, "carbs_g": 45, "fat_g": 8, "fiber_g": 6},
		"meal_prep_tips": ["Aguanta 3 días en nevera", "Congela en raciones"],
		"consumption_timing": "tras entrenar"
	}}`

	t.Run("accepts the first valid candidate", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			fmt.Fprint(w, chatResponse(t, goodRecipe))
		}))
		defer server.Close()

		service, err := NewLLMService(validator, learner)
		require.NoError(t, err)
		service.apiURL = server.URL

		candidate, err := service.GenerateValidatedRecipe(context.Background(), uuid.New(), "pollo", types.TimingPostWorkout, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, candidate.Attempts)
		assert.True(t, candidate.Validation.IsValid)
		assert.NotEmpty(t, candidate.ID)

		stored, err := service.GetCandidate(context.Background(), candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, candidate.Recipe.Name, stored.Recipe.Name)

		require.NoError(t, service.DeleteCandidate(context.Background(), candidate.ID))
	})

	t.Run("exhausts attempts and returns the best failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, chatResponse(t, `{"receta": {"name": "floja", "ingredients": [{"name": "gominolas"}]}}`))
		}))
		defer server.Close()

		service, err := NewLLMService(validator, learner)
		require.NoError(t, err)
		service.apiURL = server.URL

		candidate, err := service.GenerateValidatedRecipe(context.Background(), uuid.New(), "chuches", "", nil, nil)

		assert.ErrorIs(t, err, ErrNoAcceptableRecipe)
		require.NotNil(t, candidate)
		assert.False(t, candidate.Validation.IsValid)
		assert.Less(t, candidate.Validation.OverallScore, AcceptableScore)

		_ = service.DeleteCandidate(context.Background(), candidate.ID)
	})
}
