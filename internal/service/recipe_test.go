package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/internal/types"
)

func newRecipeService(t *testing.T) (*RecipeService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	tax := DefaultTaxonomy()
	return NewRecipeService(db, NewRecipeValidator(tax), NewPreferenceLearner(tax)), db
}

func sampleRecipe(name, timing string) *types.Recipe {
	return &types.Recipe{
		Name:            name,
		TimingCategory:  timing,
		Difficulty:      2,
		PrepTimeMinutes: 25,
		Servings:        2,
		Ingredients: []types.Ingredient{
			{Name: "pechuga de pollo", Quantity: 200, Unit: "g", Category: "proteinas"},
			{Name: "arroz", Quantity: 150, Unit: "g", Category: "carbohidratos"},
			{Name: "brocoli", Quantity: 100, Unit: "g", Category: "verduras"},
		},
		Steps: []string{"Cocer el arroz", "Hacer el pollo a la plancha", "Emplatar"},
		Macros: types.Macros{
			Calories: 400,
			Protein:  40,
			Carbs:    45,
			Fat:      8,
			Fiber:    6,
		},
		MealPrepTips: []string{"Aguanta 3 días en nevera", "Congela en raciones"},
	}
}

func TestRecipeService_CreateRecipe(t *testing.T) {
	svc, _ := newRecipeService(t)
	userID := uuid.New()

	row, validation, err := svc.CreateRecipe(context.Background(), userID, sampleRecipe("Pollo con arroz", types.TimingPostWorkout))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, row.ID)
	assert.Equal(t, userID, row.UserID)
	assert.Equal(t, validation.OverallScore, row.ValidationScore)
	assert.True(t, validation.IsValid)

	fetched, err := svc.GetRecipe(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pollo con arroz", fetched.Name)
	assert.Len(t, []types.Ingredient(fetched.Ingredients), 3)
	assert.Equal(t, 40.0, fetched.Protein)
}

func TestRecipeService_UpdateRecipe(t *testing.T) {
	svc, _ := newRecipeService(t)
	userID := uuid.New()

	row, _, err := svc.CreateRecipe(context.Background(), userID, sampleRecipe("Pollo con arroz", types.TimingPostWorkout))
	require.NoError(t, err)
	originalScore := row.ValidationScore

	changed := sampleRecipe("Pollo con arroz y gominolas", types.TimingPostWorkout)
	changed.Ingredients = append(changed.Ingredients, types.Ingredient{Name: "gominolas", Quantity: 50, Unit: "g"})

	updated, validation, err := svc.UpdateRecipe(context.Background(), row.ID, changed)
	require.NoError(t, err)

	assert.Equal(t, row.ID, updated.ID)
	assert.Equal(t, "Pollo con arroz y gominolas", updated.Name)
	assert.Equal(t, validation.OverallScore, updated.ValidationScore)
	assert.Less(t, updated.ValidationScore, originalScore)
}

func TestRecipeService_DeleteRecipe(t *testing.T) {
	svc, _ := newRecipeService(t)
	userID := uuid.New()

	row, _, err := svc.CreateRecipe(context.Background(), userID, sampleRecipe("Efímera", types.TimingSnack))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecipe(context.Background(), row.ID))

	_, err = svc.GetRecipe(context.Background(), row.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, svc.DeleteRecipe(context.Background(), row.ID), gorm.ErrRecordNotFound)
}

func TestRecipeService_ListRecipes(t *testing.T) {
	svc, _ := newRecipeService(t)
	userID := uuid.New()
	ctx := context.Background()

	_, _, err := svc.CreateRecipe(ctx, userID, sampleRecipe("Desayuno de avena", types.TimingBreakfast))
	require.NoError(t, err)
	_, _, err = svc.CreateRecipe(ctx, userID, sampleRecipe("Cena ligera", types.TimingDinner))
	require.NoError(t, err)
	_, _, err = svc.CreateRecipe(ctx, uuid.New(), sampleRecipe("De otro usuario", types.TimingDinner))
	require.NoError(t, err)

	t.Run("returns only the user's recipes", func(t *testing.T) {
		recipes, err := svc.ListRecipes(ctx, userID, "")
		require.NoError(t, err)
		assert.Len(t, recipes, 2)
	})

	t.Run("filters by timing category", func(t *testing.T) {
		recipes, err := svc.ListRecipes(ctx, userID, types.TimingDinner)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Cena ligera", recipes[0].Name)
	})
}

func TestRecipeService_SearchRecipes(t *testing.T) {
	svc, _ := newRecipeService(t)
	userID := uuid.New()
	ctx := context.Background()

	_, _, err := svc.CreateRecipe(ctx, userID, sampleRecipe("Pollo al curry", types.TimingLunch))
	require.NoError(t, err)
	salmon := sampleRecipe("Salmón al horno", types.TimingDinner)
	salmon.Ingredients = []types.Ingredient{
		{Name: "salmon", Quantity: 180, Unit: "g", Category: "proteinas"},
		{Name: "patata", Quantity: 200, Unit: "g", Category: "carbohidratos"},
	}
	_, _, err = svc.CreateRecipe(ctx, userID, salmon)
	require.NoError(t, err)

	t.Run("matches on name", func(t *testing.T) {
		recipes, err := svc.SearchRecipes(ctx, userID, "curry")
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Pollo al curry", recipes[0].Name)
	})

	t.Run("matches on ingredients", func(t *testing.T) {
		recipes, err := svc.SearchRecipes(ctx, userID, "patata")
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Salmón al horno", recipes[0].Name)
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		recipes, err := svc.SearchRecipes(ctx, userID, "")
		require.NoError(t, err)
		assert.Len(t, recipes, 2)
	})
}

func TestRecipeService_SearchPersonalized(t *testing.T) {
	svc, _ := newRecipeService(t)
	userID := uuid.New()
	ctx := context.Background()

	_, _, err := svc.CreateRecipe(ctx, userID, sampleRecipe("Pollo a la plancha", types.TimingLunch))
	require.NoError(t, err)
	tofu := sampleRecipe("Tofu salteado", types.TimingLunch)
	tofu.Ingredients = []types.Ingredient{{Name: "tofu", Quantity: 150, Unit: "g", Category: "proteinas"}}
	_, _, err = svc.CreateRecipe(ctx, userID, tofu)
	require.NoError(t, err)

	t.Run("without a profile every recipe scores neutral", func(t *testing.T) {
		scored, err := svc.SearchPersonalized(ctx, userID, "", nil)
		require.NoError(t, err)
		require.Len(t, scored, 2)
		for _, s := range scored {
			assert.Equal(t, 0.5, s.PersonalizedScore)
		}
	})

	t.Run("liked ingredients rank first", func(t *testing.T) {
		profile := types.NewIntelligenceProfile()
		profile.Statistics.TotalRatings = 10
		profile.Preferences.Ingredients[NormalizeName("pechuga de pollo")] = 2.0

		scored, err := svc.SearchPersonalized(ctx, userID, "", profile)
		require.NoError(t, err)
		require.Len(t, scored, 2)
		assert.Equal(t, "Pollo a la plancha", scored[0].Recipe.Name)
		assert.Greater(t, scored[0].PersonalizedScore, scored[1].PersonalizedScore)
	})
}
