package types

// UpdateProfileRequest is the request body for updating a profile. Nil fields
// are left untouched.
type UpdateProfileRequest struct {
	Username      string           `json:"username,omitempty"`
	WeightKg      *float64         `json:"weight_kg,omitempty"`
	HeightCm      *float64         `json:"height_cm,omitempty"`
	Age           *int             `json:"age,omitempty"`
	Sex           *string          `json:"sex,omitempty"`
	ActivityLevel *string          `json:"activity_level,omitempty"`
	Goal          *string          `json:"goal,omitempty"`
	TrainingDays  []string         `json:"training_days,omitempty"`
	Preferences   *BasePreferences `json:"preferences,omitempty"`
}
