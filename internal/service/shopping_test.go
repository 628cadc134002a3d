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

func TestCanonicalUnit(t *testing.T) {
	tests := []struct {
		unit     string
		quantity float64
		wantUnit string
		wantQty  float64
	}{
		{"g", 200, "g", 200},
		{"Gr", 200, "g", 200},
		{"kg", 0.5, "g", 500},
		{"ml", 250, "ml", 250},
		{"L", 1.5, "ml", 1500},
		{"litros", 2, "ml", 2000},
		{"unidades", 3, "unidad", 3},
		{"ud", 2, "unidad", 2},
		{"cucharada", 2, "cucharada", 2},
		{" taza ", 1, "taza", 1},
	}
	for _, tc := range tests {
		unit, qty := canonicalUnit(tc.unit, tc.quantity)
		assert.Equal(t, tc.wantUnit, unit, "unit for %q", tc.unit)
		assert.Equal(t, tc.wantQty, qty, "quantity for %q", tc.unit)
	}
}

func TestShoppingService_BuildList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShoppingService(db, DefaultTaxonomy())
	userID := uuid.New()
	ctx := context.Background()

	first := seedRecipe(t, db, userID, &types.Recipe{
		Name:           "Pollo al horno",
		TimingCategory: types.TimingLunch,
		Ingredients: []types.Ingredient{
			{Name: "Pechuga de pollo", Quantity: 200, Unit: "g", Category: "proteinas"},
			{Name: "arroz", Quantity: 150, Unit: "g", Category: "carbohidratos"},
			{Name: "huevo", Quantity: 2, Unit: "unidades"},
		},
	})
	second := seedRecipe(t, db, userID, &types.Recipe{
		Name:           "Ensalada de pollo",
		TimingCategory: types.TimingDinner,
		Ingredients: []types.Ingredient{
			{Name: "pechuga de pollo", Quantity: 0.3, Unit: "kg", Category: "proteinas"},
			{Name: "huevo", Quantity: 100, Unit: "g"},
			{Name: "salsa secreta", Quantity: 2, Unit: "cucharadas"},
		},
	})

	t.Run("merges compatible units across recipes", func(t *testing.T) {
		list, err := svc.BuildList(ctx, userID, []uuid.UUID{first.ID, second.ID})
		require.NoError(t, err)

		proteins := list.Categories["proteinas"]
		require.Len(t, proteins, 1)
		assert.Equal(t, "pechuga de pollo", proteins[0].Name)
		assert.Equal(t, 500.0, proteins[0].Quantity)
		assert.Equal(t, "g", proteins[0].Unit)
		assert.Equal(t, 2, proteins[0].Recipes)
	})

	t.Run("keeps incompatible units apart", func(t *testing.T) {
		list, err := svc.BuildList(ctx, userID, []uuid.UUID{first.ID, second.ID})
		require.NoError(t, err)

		var units []string
		for _, items := range list.Categories {
			for _, item := range items {
				if item.Name == "huevo" {
					units = append(units, item.Unit)
				}
			}
		}
		assert.ElementsMatch(t, []string{"unidad", "g"}, units)
	})

	t.Run("categorizes uncategorized ingredients through the taxonomy", func(t *testing.T) {
		list, err := svc.BuildList(ctx, userID, []uuid.UUID{first.ID, second.ID})
		require.NoError(t, err)

		foundEgg := false
		for _, item := range list.Categories["proteinas"] {
			if item.Name == "huevo" {
				foundEgg = true
			}
		}
		assert.True(t, foundEgg, "huevo should land in proteinas via the taxonomy")

		var others []string
		for _, item := range list.Categories["otros"] {
			others = append(others, item.Name)
		}
		assert.Contains(t, others, "salsa secreta")
	})

	t.Run("items within a category come back sorted by name", func(t *testing.T) {
		list, err := svc.BuildList(ctx, userID, []uuid.UUID{first.ID, second.ID})
		require.NoError(t, err)

		carbs := list.Categories["carbohidratos"]
		for i := 1; i < len(carbs); i++ {
			assert.LessOrEqual(t, carbs[i-1].Name, carbs[i].Name)
		}
		assert.True(t, list.TotalItems >= 5)
	})

	t.Run("ignores recipes owned by other users", func(t *testing.T) {
		stranger := seedRecipe(t, db, uuid.New(), &types.Recipe{
			Name:        "Ajena",
			Ingredients: []types.Ingredient{{Name: "ternera", Quantity: 300, Unit: "g", Category: "proteinas"}},
		})

		list, err := svc.BuildList(ctx, userID, []uuid.UUID{first.ID, stranger.ID})
		require.NoError(t, err)
		for _, item := range list.Categories["proteinas"] {
			assert.NotEqual(t, "ternera", item.Name)
		}
	})

	t.Run("no matching recipes is an error", func(t *testing.T) {
		_, err := svc.BuildList(ctx, userID, []uuid.UUID{uuid.New()})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
