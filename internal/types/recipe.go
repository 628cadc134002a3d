package types

// Timing categories a recipe can be classified under. The Spanish tokens are
// the canonical values shared by the bot layer, the LLM schema and storage.
const (
	TimingPreWorkout  = "pre_entreno"
	TimingPostWorkout = "post_entreno"
	TimingBreakfast   = "desayuno"
	TimingLunch       = "almuerzo"
	TimingSnack       = "snack"
	TimingDinner      = "cena"
	TimingMainMeal    = "comida_principal"
)

// TimingCategories lists every recognized timing category.
var TimingCategories = []string{
	TimingPreWorkout,
	TimingPostWorkout,
	TimingBreakfast,
	TimingLunch,
	TimingSnack,
	TimingDinner,
	TimingMainMeal,
}

// ValidTimingCategory reports whether s is one of the recognized timing
// categories.
func ValidTimingCategory(s string) bool {
	for _, c := range TimingCategories {
		if s == c {
			return true
		}
	}
	return false
}

// Macro patterns used by the preference learner.
const (
	PatternHighProtein = "high_protein"
	PatternHighCarbs   = "high_carbs"
	PatternHighFat     = "high_fat"
	PatternBalanced    = "balanced"
)

// Ingredient is a single recipe ingredient.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// Macros holds the macronutrient summary of a recipe.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`
	Fiber    float64 `json:"fiber_g"`
}

// Recipe is an immutable recipe value. A modified candidate is always a new
// Recipe, never an in-place edit of one that was already scored.
type Recipe struct {
	Name              string       `json:"name"`
	TimingCategory    string       `json:"timing_category"`
	FunctionCategory  string       `json:"function_category"`
	Difficulty        int          `json:"difficulty"`
	PrepTimeMinutes   int          `json:"prep_time_minutes"`
	Servings          int          `json:"servings"`
	Ingredients       []Ingredient `json:"ingredients"`
	Steps             []string     `json:"steps"`
	Macros            Macros       `json:"macros"`
	MealPrepTips      []string     `json:"meal_prep_tips"`
	ConsumptionTiming string       `json:"consumption_timing"`
}

// SubScores are the per-category validation scores, each 0-100.
type SubScores struct {
	Ingredients  int `json:"ingredients"`
	Nutrition    int `json:"nutrition"`
	Timing       int `json:"timing"`
	MealPrep     int `json:"meal_prep"`
	Completeness int `json:"completeness"`
}

// ValidationResult is the outcome of scoring one recipe. It is derived data,
// produced fresh on every call and never cached.
type ValidationResult struct {
	OverallScore    int       `json:"overall_score"`
	SubScores       SubScores `json:"sub_scores"`
	IsValid         bool      `json:"is_valid"`
	Issues          []string  `json:"issues"`
	Recommendations []string  `json:"recommendations"`
}
