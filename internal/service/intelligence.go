package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nutricoach/backend/internal/types"
)

// Per-dimension learning rates. Fixed, not configurable.
const (
	ingredientLearningRate = 0.10
	methodLearningRate     = 0.15
	macroLearningRate      = 0.12
	timingLearningRate     = 0.18
	complexityLearningRate = 0.10
)

// Promotion thresholds for the one-way propagation into base preferences.
const (
	likedFoodThreshold   = 1.0
	likedMethodThreshold = 0.3
	recentRatingWindow   = 7 * 24 * time.Hour
)

// ratingImpact maps a 1-5 star rating to its signed learning impact.
var ratingImpact = map[int]float64{1: -2.0, 2: -1.0, 3: 0.0, 4: 1.0, 5: 2.0}

// PreferenceLearner updates a user's intelligence profile from rating events.
// It never mutates its inputs: updates are applied to deep copies, so a
// failed save after learning leaves the stored profile untouched.
type PreferenceLearner struct {
	tax *Taxonomy
	now func() time.Time
}

// NewPreferenceLearner creates a learner bound to the given taxonomy.
func NewPreferenceLearner(tax *Taxonomy) *PreferenceLearner {
	return &PreferenceLearner{tax: tax, now: time.Now}
}

// Learn applies one (recipe, rating, feedback) event. A nil profile or nil
// preferences triggers lazy initialization. Malformed recipe data degrades to
// documented defaults; any unexpected panic is reported as a failure result
// with both inputs returned unchanged.
func (l *PreferenceLearner) Learn(profile *types.IntelligenceProfile, prefs *types.BasePreferences, recipe *types.Recipe, rating int, feedback string) (updated *types.IntelligenceProfile, updatedPrefs *types.BasePreferences, result *types.LearningResult) {
	defer func() {
		if r := recover(); r != nil {
			updated = profile
			updatedPrefs = prefs
			result = &types.LearningResult{
				Success: false,
				Reason:  fmt.Sprintf("error interno durante el aprendizaje: %v", r),
				Rating:  rating,
			}
		}
	}()

	impact, ok := ratingImpact[rating]
	if !ok {
		return profile, prefs, &types.LearningResult{
			Success: false,
			Reason:  fmt.Sprintf("valoración fuera de rango: %d", rating),
			Rating:  rating,
		}
	}

	if recipe == nil {
		recipe = &types.Recipe{}
	}

	if profile == nil {
		updated = types.NewIntelligenceProfile()
	} else {
		updated = profile.Clone()
	}
	updatedPrefs = clonePreferences(prefs)

	timing := recipe.TimingCategory
	if TimingGroup(timing) == "" {
		timing = types.TimingMainMeal
	}

	method := l.InferCookingMethod(recipe)
	pattern := ClassifyMacroPattern(recipe.Macros)
	complexity := RecipeComplexity(recipe)

	adjusted := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		key := NormalizeName(ing.Name)
		if key == "" {
			continue
		}
		updated.Preferences.Ingredients[key] = clampFloat(
			updated.Preferences.Ingredients[key]+impact*ingredientLearningRate,
			types.AffinityMin, types.AffinityMax)
		adjusted = append(adjusted, key)
	}

	updated.Preferences.CookingMethods[method] = clampFloat(
		updated.Preferences.CookingMethods[method]+impact*methodLearningRate,
		types.AffinityMin, types.AffinityMax)

	updated.Preferences.MacroPatterns[pattern] = clampFloat(
		updated.Preferences.MacroPatterns[pattern]+impact*macroLearningRate,
		types.AffinityMin, types.AffinityMax)

	updated.Preferences.TimingPatterns[timing] = clampFloat(
		updated.Preferences.TimingPatterns[timing]+impact*timingLearningRate,
		types.AffinityMin, types.AffinityMax)

	updated.Preferences.ComplexityPreference = clampFloat(
		updated.Preferences.ComplexityPreference+impact*complexity*complexityLearningRate,
		types.ComplexityMin, types.ComplexityMax)

	now := l.now()
	updated.RatingsHistory = append(updated.RatingsHistory, types.RatingEvent{
		Recipe:    *recipe,
		Rating:    rating,
		Feedback:  feedback,
		Timestamp: now,
	})
	if len(updated.RatingsHistory) > types.MaxRatingHistory {
		updated.RatingsHistory = updated.RatingsHistory[len(updated.RatingsHistory)-types.MaxRatingHistory:]
	}

	updated.Statistics.RatingDistribution[rating]++
	updated.Statistics.TotalRatings++
	updated.Statistics.AverageRating = distributionMean(updated.Statistics.RatingDistribution)
	updated.UpdatedAt = now

	promotedFoods, promotedMethods := l.promotePreferences(updated, updatedPrefs)

	return updated, updatedPrefs, &types.LearningResult{
		Success:             true,
		Rating:              rating,
		Impact:              impact,
		CookingMethod:       method,
		MacroPattern:        pattern,
		ComplexityScore:     complexity,
		AdjustedIngredients: adjusted,
		PromotedFoods:       promotedFoods,
		PromotedMethods:     promotedMethods,
		IntelligenceScore:   l.IntelligenceScore(updated),
		TotalRatings:        updated.Statistics.TotalRatings,
	}
}

// promotePreferences applies the one-way promotion of strong affinities into
// the base preference record. Negative affinities never demote or remove
// anything; a single bad rating must not blacklist a food.
func (l *PreferenceLearner) promotePreferences(profile *types.IntelligenceProfile, prefs *types.BasePreferences) (foods, methods []string) {
	for name, score := range profile.Preferences.Ingredients {
		if score <= likedFoodThreshold {
			continue
		}
		cat, ok := l.tax.CategoryOf(name)
		if !ok {
			continue
		}
		if !containsString(prefs.LikedFoods[cat], name) {
			prefs.LikedFoods[cat] = append(prefs.LikedFoods[cat], name)
			foods = append(foods, name)
		}
	}
	for method, score := range profile.Preferences.CookingMethods {
		if score <= likedMethodThreshold {
			continue
		}
		if !containsString(prefs.CookingMethods, method) {
			prefs.CookingMethods = append(prefs.CookingMethods, method)
			methods = append(methods, method)
		}
	}
	return foods, methods
}

// IntelligenceScore returns a 0-100 confidence in the learned profile based
// on data volume, rating diversity, consistency and recency.
func (l *PreferenceLearner) IntelligenceScore(profile *types.IntelligenceProfile) float64 {
	if profile == nil || profile.Statistics.TotalRatings == 0 {
		return 0
	}

	count := profile.Statistics.TotalRatings
	volume := 30 * math.Min(float64(count)/20, 1)

	distinct := 0
	for _, c := range profile.Statistics.RatingDistribution {
		if c > 0 {
			distinct++
		}
	}
	diversity := 25 * float64(distinct) / 5

	consistency := 20 * (1 - math.Abs(profile.Statistics.AverageRating-3)/2)

	cutoff := l.now().Add(-recentRatingWindow)
	recent := 0
	for _, ev := range profile.RatingsHistory {
		if ev.Timestamp.After(cutoff) {
			recent++
		}
	}
	recency := 25 * math.Min(float64(recent)/5, 1)

	return volume + diversity + consistency + recency
}

// PersonalizedScore rates how well a recipe matches the learned profile, in
// [0, 1]. A profile with no ratings yet scores a neutral 0.5.
func (l *PreferenceLearner) PersonalizedScore(recipe *types.Recipe, profile *types.IntelligenceProfile) float64 {
	if profile == nil || profile.Statistics.TotalRatings == 0 || recipe == nil {
		return 0.5
	}

	var ingredientAvg float64
	if len(recipe.Ingredients) > 0 {
		var sum float64
		for _, ing := range recipe.Ingredients {
			sum += profile.Preferences.Ingredients[NormalizeName(ing.Name)]
		}
		ingredientAvg = sum / float64(len(recipe.Ingredients))
	}

	methodAffinity := profile.Preferences.CookingMethods[l.InferCookingMethod(recipe)]
	timingAffinity := profile.Preferences.TimingPatterns[recipe.TimingCategory]

	combined := 0.35*ingredientAvg + 0.25*methodAffinity + 0.15*timingAffinity
	return clampFloat((combined+2)/4, 0, 1)
}

// InferCookingMethod searches the recipe name and preparation steps for
// method keywords; the first method with a hit wins, defaulting to the
// taxonomy's default method.
func (l *PreferenceLearner) InferCookingMethod(recipe *types.Recipe) string {
	text := NormalizeName(recipe.Name + " " + strings.Join(recipe.Steps, " "))
	for _, method := range l.tax.MethodOrder {
		for _, kw := range l.tax.MethodKeywords[method] {
			if n := NormalizeName(kw); n != "" && strings.Contains(text, n) {
				return method
			}
		}
	}
	return l.tax.DefaultMethod
}

// ClassifyMacroPattern buckets a macro summary by calorie dominance. The
// checks run in a fixed priority order; the first match wins.
func ClassifyMacroPattern(m types.Macros) string {
	if m.Calories <= 0 {
		return types.PatternBalanced
	}
	proteinPct := m.Protein * 4 / m.Calories * 100
	carbsPct := m.Carbs * 4 / m.Calories * 100
	fatPct := m.Fat * 9 / m.Calories * 100

	switch {
	case proteinPct > 35:
		return types.PatternHighProtein
	case carbsPct > 55:
		return types.PatternHighCarbs
	case fatPct > 40:
		return types.PatternHighFat
	default:
		return types.PatternBalanced
	}
}

// RecipeComplexity scores how involved a recipe is, in [-1, 1]: positive for
// long, many-ingredient, many-step, high-difficulty recipes.
func RecipeComplexity(recipe *types.Recipe) float64 {
	var score float64

	switch {
	case recipe.PrepTimeMinutes > 45:
		score += 0.3
	case recipe.PrepTimeMinutes < 20:
		score -= 0.3
	}

	switch {
	case len(recipe.Ingredients) > 8:
		score += 0.3
	case len(recipe.Ingredients) < 5:
		score -= 0.3
	}

	switch {
	case len(recipe.Steps) > 6:
		score += 0.2
	case len(recipe.Steps) < 4:
		score -= 0.2
	}

	switch {
	case recipe.Difficulty > 3:
		score += 0.2
	case recipe.Difficulty == 1:
		score -= 0.2
	}

	return clampFloat(score, -1, 1)
}

// distributionMean derives the mean rating from the distribution counts, so
// the stored average can never drift from the distribution.
func distributionMean(dist map[int]int) float64 {
	total := 0
	sum := 0
	for rating, count := range dist {
		total += count
		sum += rating * count
	}
	if total == 0 {
		return 0
	}
	return float64(sum) / float64(total)
}

func clonePreferences(prefs *types.BasePreferences) *types.BasePreferences {
	out := types.NewBasePreferences()
	if prefs == nil {
		return out
	}
	for cat, foods := range prefs.LikedFoods {
		out.LikedFoods[cat] = append([]string{}, foods...)
	}
	out.DislikedFoods = append([]string{}, prefs.DislikedFoods...)
	out.CookingMethods = append([]string{}, prefs.CookingMethods...)
	out.Allergies = append([]string{}, prefs.Allergies...)
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
