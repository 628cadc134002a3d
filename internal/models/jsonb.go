package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/nutricoach/backend/internal/types"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return jsonbString(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}
	return json.Unmarshal(jsonbBytes(value), a)
}

// JSONBIngredients stores a recipe's ingredient list in JSONB.
type JSONBIngredients []types.Ingredient

func (a JSONBIngredients) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return jsonbString(a)
}

func (a *JSONBIngredients) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBIngredients{}
		return nil
	}
	return json.Unmarshal(jsonbBytes(value), a)
}

// JSONBPreferences stores the user's base preference record in JSONB.
type JSONBPreferences struct {
	types.BasePreferences
}

func (p JSONBPreferences) Value() (driver.Value, error) {
	return jsonbString(p.BasePreferences)
}

func (p *JSONBPreferences) Scan(value interface{}) error {
	if value == nil {
		p.BasePreferences = *types.NewBasePreferences()
		return nil
	}
	return json.Unmarshal(jsonbBytes(value), &p.BasePreferences)
}

// JSONBIntelligence stores the learned intelligence profile in JSONB. A nil
// Profile means the user has not rated anything yet.
type JSONBIntelligence struct {
	Profile *types.IntelligenceProfile
}

func (p JSONBIntelligence) Value() (driver.Value, error) {
	if p.Profile == nil {
		return nil, nil
	}
	return jsonbString(p.Profile)
}

func (p *JSONBIntelligence) Scan(value interface{}) error {
	if value == nil {
		p.Profile = nil
		return nil
	}
	return json.Unmarshal(jsonbBytes(value), &p.Profile)
}

func (p JSONBIntelligence) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Profile)
}

func (p *JSONBIntelligence) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.Profile)
}

// jsonbString marshals to a string so the value lands as text on every
// dialect instead of a BLOB.
func jsonbString(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func jsonbBytes(value interface{}) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}
