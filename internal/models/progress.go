package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressEntry is one daily check-in: body weight plus the energy ledger
// used to derive energy availability.
type ProgressEntry struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_progress_user_date,unique" json:"user_id"`
	Date            time.Time      `gorm:"type:date;not null;index:idx_progress_user_date,unique" json:"date"`
	WeightKg        float64        `gorm:"type:float" json:"weight_kg"`
	IntakeKcal      float64        `gorm:"type:float" json:"intake_kcal"`
	ExpenditureKcal float64        `gorm:"type:float" json:"expenditure_kcal"`
	LeanMassKg      float64        `gorm:"type:float" json:"lean_mass_kg"`
	Notes           string         `gorm:"type:text" json:"notes"`
}

func (e *ProgressEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
