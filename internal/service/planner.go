package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// PlannedSlot is one cooking window with the recipes assigned to it.
type PlannedSlot struct {
	Day         string   `json:"day"`
	Minutes     int      `json:"minutes"`
	UsedMinutes int      `json:"used_minutes"`
	Recipes     []string `json:"recipes"`
	BatchTip    string   `json:"batch_tip,omitempty"`
}

// PrepPlan is the suggested cooking schedule for a set of recipes.
type PrepPlan struct {
	Slots      []PlannedSlot `json:"slots"`
	Unassigned []string      `json:"unassigned"`
}

// PlannerService picks cooking slots for recipes from the user's available
// time windows. Longest recipes are placed first into the largest remaining
// window, so batch-cooking days absorb the heavy preparations.
type PlannerService struct {
	db *gorm.DB
}

func NewPlannerService(db *gorm.DB) *PlannerService {
	return &PlannerService{db: db}
}

func (s *PlannerService) Plan(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID, slots []types.PlannerSlot) (*PrepPlan, error) {
	var rows []models.Recipe
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, recipeIDs).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PrepTimeMinutes > rows[j].PrepTimeMinutes
	})

	planned := make([]PlannedSlot, len(slots))
	for i, slot := range slots {
		planned[i] = PlannedSlot{Day: slot.Day, Minutes: slot.Minutes}
	}

	plan := &PrepPlan{}
	for _, row := range rows {
		best := -1
		bestFree := 0
		for i := range planned {
			free := planned[i].Minutes - planned[i].UsedMinutes
			if free >= row.PrepTimeMinutes && free > bestFree {
				best = i
				bestFree = free
			}
		}
		if best < 0 {
			plan.Unassigned = append(plan.Unassigned, row.Name)
			continue
		}
		planned[best].Recipes = append(planned[best].Recipes, row.Name)
		planned[best].UsedMinutes += row.PrepTimeMinutes
	}

	for i := range planned {
		if len(planned[i].Recipes) >= 2 {
			planned[i].BatchTip = fmt.Sprintf("Prepara las %d recetas del %s en tandas para aprovechar el horno y los tiempos muertos.",
				len(planned[i].Recipes), planned[i].Day)
		}
	}
	plan.Slots = planned
	return plan, nil
}
