package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

func dayString(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
}

func TestProgressService_LogEntry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProgressService(db)
	userID := uuid.New()
	ctx := context.Background()

	t.Run("records a daily entry", func(t *testing.T) {
		entry, err := svc.LogEntry(ctx, userID, &types.ProgressEntryRequest{
			Date:            dayString(0),
			WeightKg:        80.5,
			IntakeKcal:      2600,
			ExpenditureKcal: 400,
			LeanMassKg:      62,
			Notes:           "buen día de entreno",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, 80.5, entry.WeightKg)
	})

	t.Run("a second entry for the same date overwrites the first", func(t *testing.T) {
		date := dayString(-1)
		_, err := svc.LogEntry(ctx, userID, &types.ProgressEntryRequest{Date: date, WeightKg: 81})
		require.NoError(t, err)
		_, err = svc.LogEntry(ctx, userID, &types.ProgressEntryRequest{Date: date, WeightKg: 80.2})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.ProgressEntry{}).Where("user_id = ?", userID).Count(&count).Error)
		assert.Equal(t, int64(2), count)

		var stored models.ProgressEntry
		require.NoError(t, db.Where("user_id = ? AND weight_kg = ?", userID, 80.2).First(&stored).Error)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		_, err := svc.LogEntry(ctx, userID, &types.ProgressEntryRequest{Date: "29/08/2026", WeightKg: 80})
		assert.Error(t, err)
	})
}

func TestProgressService_Trend(t *testing.T) {
	ctx := context.Background()

	logDays := func(t *testing.T, svc *ProgressService, userID uuid.UUID, weights []float64, intake, expenditure, lean float64) {
		t.Helper()
		for i, w := range weights {
			_, err := svc.LogEntry(ctx, userID, &types.ProgressEntryRequest{
				Date:            dayString(i - len(weights) + 1),
				WeightKg:        w,
				IntakeKcal:      intake,
				ExpenditureKcal: expenditure,
				LeanMassKg:      lean,
			})
			require.NoError(t, err)
		}
	}

	t.Run("computes the weekly weight slope from a linear descent", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewProgressService(db)
		userID := uuid.New()
		logDays(t, svc, userID, []float64{80.0, 79.8, 79.6, 79.4}, 2500, 500, 50)

		trend, err := svc.Trend(ctx, userID, 28)
		require.NoError(t, err)

		assert.Equal(t, 4, trend.Entries)
		assert.InDelta(t, -0.6, trend.WeightChangeKg, 1e-9)
		assert.InDelta(t, -1.4, trend.WeeklySlopeKg, 1e-9)
		assert.InDelta(t, 40.0, trend.EnergyAvailability, 1e-9)
		assert.Equal(t, "suboptima", trend.Adequacy)
	})

	t.Run("classifies low energy availability", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewProgressService(db)
		userID := uuid.New()
		logDays(t, svc, userID, []float64{70, 70}, 1600, 350, 50)

		trend, err := svc.Trend(ctx, userID, 0)
		require.NoError(t, err)
		assert.InDelta(t, 25.0, trend.EnergyAvailability, 1e-9)
		assert.Equal(t, "baja", trend.Adequacy)
	})

	t.Run("classifies optimal energy availability", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewProgressService(db)
		userID := uuid.New()
		logDays(t, svc, userID, []float64{70, 70}, 2800, 300, 50)

		trend, err := svc.Trend(ctx, userID, 28)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, trend.EnergyAvailability, 1e-9)
		assert.Equal(t, "optima", trend.Adequacy)
	})

	t.Run("no lean mass data yields sin_datos", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewProgressService(db)
		userID := uuid.New()
		logDays(t, svc, userID, []float64{70, 69.5}, 2400, 400, 0)

		trend, err := svc.Trend(ctx, userID, 28)
		require.NoError(t, err)
		assert.Equal(t, 2, trend.Entries)
		assert.InDelta(t, -0.5, trend.WeightChangeKg, 1e-9)
		assert.Equal(t, "sin_datos", trend.Adequacy)
	})

	t.Run("no entries at all yields sin_datos", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewProgressService(db)

		trend, err := svc.Trend(ctx, uuid.New(), 28)
		require.NoError(t, err)
		assert.Equal(t, 0, trend.Entries)
		assert.Equal(t, "sin_datos", trend.Adequacy)
	})
}
