package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/internal/types"
)

type Recipe struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
	Name              string           `gorm:"size:255;not null" json:"name"`
	TimingCategory    string           `gorm:"size:30;index" json:"timing_category"`
	FunctionCategory  string           `gorm:"size:30" json:"function_category"`
	Difficulty        int              `json:"difficulty"`
	PrepTimeMinutes   int              `json:"prep_time_minutes"`
	Servings          int              `json:"servings"`
	Ingredients       JSONBIngredients `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps             JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	MealPrepTips      JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"meal_prep_tips"`
	ConsumptionTiming string           `gorm:"type:text" json:"consumption_timing"`
	Calories          float64          `gorm:"type:float" json:"calories"`
	Protein           float64          `gorm:"type:float" json:"protein_g"`
	Carbs             float64          `gorm:"type:float" json:"carbs_g"`
	Fat               float64          `gorm:"type:float" json:"fat_g"`
	Fiber             float64          `gorm:"type:float" json:"fiber_g"`
	ValidationScore   int              `gorm:"index" json:"validation_score"`
	Embedding         pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ToType converts the stored row into the in-memory recipe the scoring
// core works with.
func (r *Recipe) ToType() *types.Recipe {
	return &types.Recipe{
		Name:             r.Name,
		TimingCategory:   r.TimingCategory,
		FunctionCategory: r.FunctionCategory,
		Difficulty:       r.Difficulty,
		PrepTimeMinutes:  r.PrepTimeMinutes,
		Servings:         r.Servings,
		Ingredients:      []types.Ingredient(r.Ingredients),
		Steps:            []string(r.Steps),
		Macros: types.Macros{
			Calories: r.Calories,
			Protein:  r.Protein,
			Carbs:    r.Carbs,
			Fat:      r.Fat,
			Fiber:    r.Fiber,
		},
		MealPrepTips:      []string(r.MealPrepTips),
		ConsumptionTiming: r.ConsumptionTiming,
	}
}

// FromType fills the row from an in-memory recipe, leaving identity and
// timestamps alone.
func (r *Recipe) FromType(recipe *types.Recipe) {
	r.Name = recipe.Name
	r.TimingCategory = recipe.TimingCategory
	r.FunctionCategory = recipe.FunctionCategory
	r.Difficulty = recipe.Difficulty
	r.PrepTimeMinutes = recipe.PrepTimeMinutes
	r.Servings = recipe.Servings
	r.Ingredients = JSONBIngredients(recipe.Ingredients)
	r.Steps = JSONBStringArray(recipe.Steps)
	r.MealPrepTips = JSONBStringArray(recipe.MealPrepTips)
	r.ConsumptionTiming = recipe.ConsumptionTiming
	r.Calories = recipe.Macros.Calories
	r.Protein = recipe.Macros.Protein
	r.Carbs = recipe.Macros.Carbs
	r.Fat = recipe.Macros.Fat
	r.Fiber = recipe.Macros.Fiber
}

type RecipeRating struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	RecipeID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"recipe_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Rating    int            `gorm:"not null" json:"rating"`
	Feedback  string         `gorm:"type:text" json:"feedback"`
}

func (r *RecipeRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
