package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// Energy availability thresholds, kcal per kg of lean mass per day.
const (
	energyAvailabilityLow     = 30.0
	energyAvailabilityOptimal = 45.0
)

// ProgressTrend summarizes recent check-ins.
type ProgressTrend struct {
	Entries            int     `json:"entries"`
	WeightChangeKg     float64 `json:"weight_change_kg"`
	WeeklySlopeKg      float64 `json:"weekly_slope_kg"`
	EnergyAvailability float64 `json:"energy_availability"`
	Adequacy           string  `json:"adequacy"`
}

// ProgressService records daily metrics and computes weight and energy
// trends.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// LogEntry records one day's metrics. A second entry for the same date
// overwrites the first.
func (s *ProgressService) LogEntry(ctx context.Context, userID uuid.UUID, req *types.ProgressEntryRequest) (*models.ProgressEntry, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	entry := &models.ProgressEntry{
		UserID:          userID,
		Date:            date,
		WeightKg:        req.WeightKg,
		IntakeKcal:      req.IntakeKcal,
		ExpenditureKcal: req.ExpenditureKcal,
		LeanMassKg:      req.LeanMassKg,
		Notes:           req.Notes,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		UpdateAll: true,
	}).Create(entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to log progress entry: %w", err)
	}
	return entry, nil
}

// Trend computes the weight trend and average energy availability over the
// last `days` days. The weekly slope comes from a least-squares fit of
// weight against day number.
func (s *ProgressService) Trend(ctx context.Context, userID uuid.UUID, days int) (*ProgressTrend, error) {
	if days <= 0 {
		days = 28
	}
	since := time.Now().AddDate(0, 0, -days)

	var entries []models.ProgressEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load progress entries: %w", err)
	}

	trend := &ProgressTrend{Entries: len(entries)}
	if len(entries) == 0 {
		trend.Adequacy = "sin_datos"
		return trend, nil
	}

	weighted := entries[:0:0]
	for _, e := range entries {
		if e.WeightKg > 0 {
			weighted = append(weighted, e)
		}
	}
	if n := len(weighted); n > 0 {
		trend.WeightChangeKg = weighted[n-1].WeightKg - weighted[0].WeightKg
		if n > 1 {
			trend.WeeklySlopeKg = weightSlope(weighted) * 7
		}
	}

	var eaSum float64
	var eaCount int
	for _, e := range entries {
		if e.LeanMassKg <= 0 {
			continue
		}
		eaSum += (e.IntakeKcal - e.ExpenditureKcal) / e.LeanMassKg
		eaCount++
	}
	if eaCount == 0 {
		trend.Adequacy = "sin_datos"
		return trend, nil
	}

	trend.EnergyAvailability = math.Round(eaSum/float64(eaCount)*10) / 10
	switch {
	case trend.EnergyAvailability < energyAvailabilityLow:
		trend.Adequacy = "baja"
	case trend.EnergyAvailability < energyAvailabilityOptimal:
		trend.Adequacy = "suboptima"
	default:
		trend.Adequacy = "optima"
	}
	return trend, nil
}

// weightSlope returns kilograms per day from a least-squares fit.
func weightSlope(entries []models.ProgressEntry) float64 {
	n := float64(len(entries))
	origin := entries[0].Date

	var sumX, sumY, sumXY, sumXX float64
	for _, e := range entries {
		x := e.Date.Sub(origin).Hours() / 24
		y := e.WeightKg
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
