package types

import "time"

// Affinity score bounds. Every learned affinity stays inside its bound after
// each update; the learner clamps before storing.
const (
	AffinityMin = -2.0
	AffinityMax = 2.0

	ComplexityMin = -1.0
	ComplexityMax = 1.0
)

// MaxRatingHistory caps the ratings history per user. Oldest entries are
// evicted first when a new rating pushes the list over the cap.
const MaxRatingHistory = 100

// RatingEvent records one user rating of a recipe.
type RatingEvent struct {
	Recipe    Recipe    `json:"recipe"`
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// BasicStatistics are running aggregates over the ratings history.
type BasicStatistics struct {
	TotalRatings       int         `json:"total_ratings"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

// LearnedPreferences holds the bounded affinity maps built up from ratings.
type LearnedPreferences struct {
	Ingredients          map[string]float64 `json:"ingredients"`
	CookingMethods       map[string]float64 `json:"cooking_methods"`
	MacroPatterns        map[string]float64 `json:"macro_patterns"`
	TimingPatterns       map[string]float64 `json:"timing_patterns"`
	ComplexityPreference float64            `json:"complexity_preference"`
}

// IntelligenceProfile is the long-lived learned profile for one user. It is
// created lazily on the first rating event and mutated only through the
// preference learner, which always works on a copy.
type IntelligenceProfile struct {
	RatingsHistory []RatingEvent      `json:"ratings_history"`
	Statistics     BasicStatistics    `json:"basic_statistics"`
	Preferences    LearnedPreferences `json:"learned_preferences"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewIntelligenceProfile returns an empty profile with initialized maps.
func NewIntelligenceProfile() *IntelligenceProfile {
	return &IntelligenceProfile{
		RatingsHistory: []RatingEvent{},
		Statistics: BasicStatistics{
			RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		},
		Preferences: LearnedPreferences{
			Ingredients:    map[string]float64{},
			CookingMethods: map[string]float64{},
			MacroPatterns:  map[string]float64{},
			TimingPatterns: map[string]float64{},
		},
	}
}

// Clone returns a deep copy of the profile. The learner applies updates to a
// clone so a failed save never leaves a half-applied profile behind.
func (p *IntelligenceProfile) Clone() *IntelligenceProfile {
	out := NewIntelligenceProfile()
	out.RatingsHistory = make([]RatingEvent, len(p.RatingsHistory))
	copy(out.RatingsHistory, p.RatingsHistory)
	out.Statistics.TotalRatings = p.Statistics.TotalRatings
	out.Statistics.AverageRating = p.Statistics.AverageRating
	for k, v := range p.Statistics.RatingDistribution {
		out.Statistics.RatingDistribution[k] = v
	}
	for k, v := range p.Preferences.Ingredients {
		out.Preferences.Ingredients[k] = v
	}
	for k, v := range p.Preferences.CookingMethods {
		out.Preferences.CookingMethods[k] = v
	}
	for k, v := range p.Preferences.MacroPatterns {
		out.Preferences.MacroPatterns[k] = v
	}
	for k, v := range p.Preferences.TimingPatterns {
		out.Preferences.TimingPatterns[k] = v
	}
	out.Preferences.ComplexityPreference = p.Preferences.ComplexityPreference
	out.UpdatedAt = p.UpdatedAt
	return out
}

// LearningResult summarizes what one rating event changed.
type LearningResult struct {
	Success             bool     `json:"success"`
	Reason              string   `json:"reason,omitempty"`
	Rating              int      `json:"rating"`
	Impact              float64  `json:"impact"`
	CookingMethod       string   `json:"cooking_method"`
	MacroPattern        string   `json:"macro_pattern"`
	ComplexityScore     float64  `json:"complexity_score"`
	AdjustedIngredients []string `json:"adjusted_ingredients"`
	PromotedFoods       []string `json:"promoted_foods,omitempty"`
	PromotedMethods     []string `json:"promoted_methods,omitempty"`
	IntelligenceScore   float64  `json:"intelligence_score"`
	TotalRatings        int      `json:"total_ratings"`
}

// BasePreferences is the user's plain preference record. The learner promotes
// strong positive affinities into it; it never removes entries on negative
// ratings.
type BasePreferences struct {
	LikedFoods     map[string][]string `json:"liked_foods"`
	DislikedFoods  []string            `json:"disliked_foods"`
	CookingMethods []string            `json:"cooking_methods"`
	Allergies      []string            `json:"allergies"`
}

// NewBasePreferences returns an empty preference record.
func NewBasePreferences() *BasePreferences {
	return &BasePreferences{
		LikedFoods:     map[string][]string{},
		DislikedFoods:  []string{},
		CookingMethods: []string{},
		Allergies:      []string{},
	}
}
