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

// ShoppingItem is one aggregated line of the shopping list.
type ShoppingItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Recipes  int     `json:"recipes"`
}

// ShoppingList groups aggregated items by ingredient category.
type ShoppingList struct {
	Categories map[string][]ShoppingItem `json:"categories"`
	TotalItems int                       `json:"total_items"`
}

// ShoppingService aggregates ingredient quantities across recipes.
type ShoppingService struct {
	db  *gorm.DB
	tax *Taxonomy
}

func NewShoppingService(db *gorm.DB, tax *Taxonomy) *ShoppingService {
	return &ShoppingService{db: db, tax: tax}
}

// unitScale maps a unit to its canonical form and the factor that converts
// a quantity into it. Units outside the table aggregate only with themselves.
var unitScale = map[string]struct {
	canonical string
	factor    float64
}{
	"g":        {"g", 1},
	"gr":       {"g", 1},
	"gramos":   {"g", 1},
	"kg":       {"g", 1000},
	"ml":       {"ml", 1},
	"l":        {"ml", 1000},
	"litro":    {"ml", 1000},
	"litros":   {"ml", 1000},
	"unidad":   {"unidad", 1},
	"unidades": {"unidad", 1},
	"ud":       {"unidad", 1},
}

func canonicalUnit(unit string, quantity float64) (string, float64) {
	key := strings.ToLower(strings.TrimSpace(unit))
	if scale, ok := unitScale[key]; ok {
		return scale.canonical, quantity * scale.factor
	}
	return key, quantity
}

// BuildList loads the requested recipes and merges their ingredients.
// Quantities add up only when the units are compatible; otherwise the
// ingredient appears once per unit.
func (s *ShoppingService) BuildList(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (*ShoppingList, error) {
	var rows []models.Recipe
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, recipeIDs).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	type aggregate struct {
		item ShoppingItem
	}
	merged := make(map[string]*aggregate)

	for _, row := range rows {
		for _, ing := range []types.Ingredient(row.Ingredients) {
			name := NormalizeName(ing.Name)
			if name == "" {
				continue
			}
			unit, quantity := canonicalUnit(ing.Unit, ing.Quantity)
			category := ing.Category
			if category == "" {
				if cat, ok := s.tax.CategoryOf(ing.Name); ok {
					category = cat
				} else {
					category = "otros"
				}
			}

			key := name + "|" + unit
			if agg, ok := merged[key]; ok {
				agg.item.Quantity += quantity
				agg.item.Recipes++
				continue
			}
			merged[key] = &aggregate{item: ShoppingItem{
				Name:     strings.ToLower(strings.TrimSpace(ing.Name)),
				Quantity: quantity,
				Unit:     unit,
				Category: category,
				Recipes:  1,
			}}
		}
	}

	list := &ShoppingList{Categories: make(map[string][]ShoppingItem)}
	for _, agg := range merged {
		list.Categories[agg.item.Category] = append(list.Categories[agg.item.Category], agg.item)
		list.TotalItems++
	}
	for category := range list.Categories {
		items := list.Categories[category]
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
		list.Categories[category] = items
	}
	return list, nil
}
