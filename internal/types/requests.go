package types

import "github.com/google/uuid"

// GenerateRecipeRequest is the request body for LLM recipe generation.
type GenerateRecipeRequest struct {
	Query          string `json:"query" binding:"required"`
	TimingCategory string `json:"timing_category"`
}

// RateRecipeRequest is the request body for rating a recipe.
type RateRecipeRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// ShoppingListRequest selects the recipes to aggregate into a shopping list.
type ShoppingListRequest struct {
	RecipeIDs []uuid.UUID `json:"recipe_ids" binding:"required,min=1"`
}

// PlannerRequest describes the user's available cooking windows.
type PlannerRequest struct {
	RecipeIDs []uuid.UUID   `json:"recipe_ids" binding:"required,min=1"`
	Slots     []PlannerSlot `json:"slots" binding:"required,min=1"`
}

// PlannerSlot is one available cooking window.
type PlannerSlot struct {
	Day     string `json:"day" binding:"required"`
	Minutes int    `json:"minutes" binding:"required,min=1"`
}

// ProgressEntryRequest logs one day of progress metrics.
type ProgressEntryRequest struct {
	Date            string  `json:"date" binding:"required"`
	WeightKg        float64 `json:"weight_kg"`
	IntakeKcal      float64 `json:"intake_kcal"`
	ExpenditureKcal float64 `json:"expenditure_kcal"`
	LeanMassKg      float64 `json:"lean_mass_kg"`
	Notes           string  `json:"notes"`
}
