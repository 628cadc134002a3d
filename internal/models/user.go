package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile carries the user's physiological data plus the two JSONB
// sub-structures owned by the learning core: base preferences and the
// intelligence profile. Other columns in this row belong to other features;
// the learner only reads and writes its own keys.
type UserProfile struct {
	ID            uuid.UUID         `gorm:"type:uuid;primarykey" json:"id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Username      string            `gorm:"size:50;not null;uniqueIndex" json:"username"`
	WeightKg      float64           `gorm:"type:float" json:"weight_kg"`
	HeightCm      float64           `gorm:"type:float" json:"height_cm"`
	Age           int               `json:"age"`
	Sex           string            `gorm:"size:10" json:"sex"`
	ActivityLevel string            `gorm:"size:20;default:'moderado'" json:"activity_level"`
	Goal          string            `gorm:"size:30" json:"goal"`
	TrainingDays  JSONBStringArray  `gorm:"type:jsonb;not null;default:'[]'" json:"training_days"`
	Preferences   JSONBPreferences  `gorm:"type:jsonb" json:"preferences"`
	Intelligence  JSONBIntelligence `gorm:"type:jsonb" json:"recipe_intelligence"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
