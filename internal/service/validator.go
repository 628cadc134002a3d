package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/nutricoach/backend/internal/types"
)

// AcceptableScore is the single acceptability threshold. Both
// ValidationResult.IsValid and the generation retry loop reference it.
const AcceptableScore = 70

// Sub-score weights. They sum to 1.0 and weight the overall score.
const (
	weightIngredients  = 0.30
	weightNutrition    = 0.25
	weightTiming       = 0.20
	weightMealPrep     = 0.15
	weightCompleteness = 0.10
)

// RecipeValidator scores recipes against the nutrition taxonomy. It is
// stateless and safe for concurrent use.
type RecipeValidator struct {
	tax                 *Taxonomy
	normalizedForbidden []string
}

// NewRecipeValidator creates a validator bound to the given taxonomy.
func NewRecipeValidator(tax *Taxonomy) *RecipeValidator {
	forbidden := make([]string, 0, len(tax.Forbidden))
	for _, f := range tax.Forbidden {
		if n := NormalizeName(f); n != "" {
			forbidden = append(forbidden, n)
		}
	}
	return &RecipeValidator{tax: tax, normalizedForbidden: forbidden}
}

// Validate scores one recipe and returns the composite result. Malformed
// recipes degrade to low sub-scores instead of failing; an unexpected panic
// is reported as a single issue with the score left at zero.
func (v *RecipeValidator) Validate(recipe *types.Recipe) (result *types.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = &types.ValidationResult{
				Issues:          []string{fmt.Sprintf("error interno durante la validación: %v", r)},
				Recommendations: []string{summaryRecommendation(0)},
			}
		}
	}()

	if recipe == nil {
		return &types.ValidationResult{
			Issues:          []string{"receta vacía"},
			Recommendations: []string{summaryRecommendation(0)},
		}
	}

	var issues []string

	sub := types.SubScores{
		Ingredients:  v.scoreIngredients(recipe, &issues),
		Nutrition:    v.scoreNutrition(recipe, &issues),
		Timing:       v.scoreTiming(recipe, &issues),
		MealPrep:     v.scoreMealPrep(recipe),
		Completeness: v.scoreCompleteness(recipe, &issues),
	}

	weighted := weightIngredients*float64(sub.Ingredients) +
		weightNutrition*float64(sub.Nutrition) +
		weightTiming*float64(sub.Timing) +
		weightMealPrep*float64(sub.MealPrep) +
		weightCompleteness*float64(sub.Completeness)

	overall := int(math.Round(weighted))
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}

	return &types.ValidationResult{
		OverallScore:    overall,
		SubScores:       sub,
		IsValid:         overall >= AcceptableScore,
		Issues:          issues,
		Recommendations: buildRecommendations(overall, sub),
	}
}

// scoreIngredients rates ingredient naturalness: the fraction of recognized
// natural ingredients, minus 10 points per forbidden match, plus 5 points per
// distinct natural category up to 20.
func (v *RecipeValidator) scoreIngredients(recipe *types.Recipe, issues *[]string) int {
	total := len(recipe.Ingredients)
	if total == 0 {
		*issues = append(*issues, "la receta no tiene ingredientes")
		return 0
	}

	natural := 0
	categories := make(map[string]bool)
	forbiddenHits := 0

	for _, ing := range recipe.Ingredients {
		n := NormalizeName(ing.Name)
		if n == "" {
			continue
		}
		if cat, ok := v.tax.CategoryOf(ing.Name); ok {
			natural++
			categories[cat] = true
		}
		for _, f := range v.normalizedForbidden {
			if strings.Contains(n, f) {
				forbiddenHits++
				*issues = append(*issues, "ingrediente no permitido: "+ing.Name)
				break
			}
		}
	}

	base := float64(natural) / float64(total) * 100
	score := base - float64(10*forbiddenHits)
	if score < 0 {
		score = 0
	}

	bonus := 5 * len(categories)
	if bonus > 20 {
		bonus = 20
	}

	return clampScore(int(math.Round(score)) + bonus)
}

// scoreNutrition checks caloric coherence (up to 40) and macro balance
// (up to 60) against the declared calories.
func (v *RecipeValidator) scoreNutrition(recipe *types.Recipe, issues *[]string) int {
	m := recipe.Macros
	if m.Calories <= 0 {
		*issues = append(*issues, "calorías no declaradas")
		return 0
	}

	computed := m.Protein*4 + m.Carbs*4 + m.Fat*9

	coherence := 0
	if computed <= 0 {
		*issues = append(*issues, "macros no declarados")
	} else {
		diffPct := math.Abs(computed-m.Calories) / m.Calories * 100
		if diffPct <= 10 {
			coherence = 40
		} else {
			coherence = int(math.Round(40 - (diffPct - 10)))
			if coherence < 0 {
				coherence = 0
			}
			*issues = append(*issues,
				fmt.Sprintf("las calorías calculadas (%.0f kcal) no cuadran con las declaradas (%.0f kcal)", computed, m.Calories))
		}
	}

	proteinPct := m.Protein * 4 / m.Calories * 100
	carbsPct := m.Carbs * 4 / m.Calories * 100
	fatPct := m.Fat * 9 / m.Calories * 100

	balance := 0
	if proteinPct >= 15 && proteinPct <= 35 {
		balance += 20
	}
	if carbsPct >= 25 && carbsPct <= 65 {
		balance += 20
	}
	if fatPct >= 15 && fatPct <= 35 {
		balance += 20
	}

	sum := proteinPct + carbsPct + fatPct
	if sum >= 95 && sum <= 105 {
		balance += 20
	} else if sum >= 90 && sum <= 110 {
		balance += 10
	}
	if balance > 60 {
		balance = 60
	}

	return clampScore(coherence + balance)
}

// scoreTiming awards 20 base points for a recognized timing category plus 20
// points per nutrient band the recipe hits for that timing, plus a 10-point
// timing-specific bonus rule.
func (v *RecipeValidator) scoreTiming(recipe *types.Recipe, issues *[]string) int {
	group := TimingGroup(recipe.TimingCategory)
	if group == "" {
		*issues = append(*issues, "momento de consumo no reconocido: "+recipe.TimingCategory)
		return 0
	}

	score := 20

	crit, ok := v.tax.TimingCriteria[group]
	if !ok {
		return score
	}

	m := recipe.Macros
	if m.Calories > 0 {
		if crit.Calories.Contains(m.Calories) {
			score += 20
		}
		if crit.ProteinPct.Contains(m.Protein * 4 / m.Calories * 100) {
			score += 20
		}
		if crit.CarbsPct.Contains(m.Carbs * 4 / m.Calories * 100) {
			score += 20
		}
		if crit.FatPct.Contains(m.Fat * 9 / m.Calories * 100) {
			score += 20
		}
	}

	switch crit.BonusRule {
	case BonusFiberAtMost:
		if m.Fiber <= crit.BonusGrams {
			score += 10
		}
	case BonusFiberAtLeast:
		if m.Fiber >= crit.BonusGrams {
			score += 10
		}
	case BonusProteinAtLeast:
		if m.Protein >= crit.BonusGrams {
			score += 10
		}
	}

	return clampScore(score)
}

// scoreMealPrep rates how well the recipe fits batch cooking: prep time,
// conservation tips and difficulty.
func (v *RecipeValidator) scoreMealPrep(recipe *types.Recipe) int {
	var prep int
	switch {
	case recipe.PrepTimeMinutes <= 30:
		prep = 50
	case recipe.PrepTimeMinutes <= 45:
		prep = 35
	case recipe.PrepTimeMinutes <= 60:
		prep = 20
	default:
		prep = 10
	}

	var conservation int
	switch {
	case len(recipe.MealPrepTips) >= 2:
		conservation = 30
	case len(recipe.MealPrepTips) == 1:
		conservation = 20
	default:
		conservation = 10
	}

	var difficulty int
	switch {
	case recipe.Difficulty <= 2:
		difficulty = 20
	case recipe.Difficulty == 3:
		difficulty = 10
	}

	return clampScore(prep + conservation + difficulty)
}

// scoreCompleteness rates structural completeness: the percentage of
// required top-level fields present, plus bonus points for the quality of
// those fields, clamped at 100.
func (v *RecipeValidator) scoreCompleteness(recipe *types.Recipe, issues *[]string) int {
	present := 0
	const required = 8
	if recipe.Name != "" {
		present++
	}
	if recipe.TimingCategory != "" {
		present++
	}
	if recipe.Difficulty > 0 {
		present++
	}
	if recipe.PrepTimeMinutes > 0 {
		present++
	}
	if recipe.Servings > 0 {
		present++
	}
	if len(recipe.Ingredients) > 0 {
		present++
	}
	if len(recipe.Steps) > 0 {
		present++
	}
	if recipe.Macros.Calories > 0 {
		present++
	}

	if present < required {
		*issues = append(*issues, fmt.Sprintf("faltan %d campos obligatorios en la receta", required-present))
	}

	score := int(math.Round(float64(present) / required * 100))

	structured := len(recipe.Ingredients) > 0
	for _, ing := range recipe.Ingredients {
		if ing.Name == "" || ing.Quantity <= 0 || ing.Unit == "" {
			structured = false
			break
		}
	}
	if structured {
		score += 20
	}

	m := recipe.Macros
	if m.Calories > 0 && m.Protein > 0 && m.Carbs > 0 && m.Fat > 0 {
		score += 20
	}

	if len(recipe.Steps) >= 3 {
		score += 10
	}

	return clampScore(score)
}

// buildRecommendations produces the summary line plus one suggestion per
// sub-score below the acceptability threshold.
func buildRecommendations(overall int, sub types.SubScores) []string {
	recs := []string{summaryRecommendation(overall)}

	if sub.Ingredients < AcceptableScore {
		recs = append(recs, "Sustituye los ingredientes procesados por alternativas naturales.")
	}
	if sub.Nutrition < AcceptableScore {
		recs = append(recs, "Ajusta los macros para que cuadren con las calorías declaradas.")
	}
	if sub.Timing < AcceptableScore {
		recs = append(recs, "Adapta las calorías y los macros al momento de consumo indicado.")
	}
	if sub.MealPrep < AcceptableScore {
		recs = append(recs, "Simplifica la preparación y añade consejos de conservación.")
	}
	if sub.Completeness < AcceptableScore {
		recs = append(recs, "Completa los campos que faltan en la receta.")
	}

	return recs
}

func summaryRecommendation(overall int) string {
	switch {
	case overall >= 90:
		return "Receta excelente, lista para usar."
	case overall >= 80:
		return "Buena receta, con pequeños ajustes posibles."
	case overall >= AcceptableScore:
		return "Receta aceptable, revisa las recomendaciones."
	default:
		return "La receta necesita una revisión completa."
	}
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
