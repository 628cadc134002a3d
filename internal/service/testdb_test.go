package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// setupTestDB opens a fresh in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Recipe{},
		&models.RecipeRating{},
		&models.ProgressEntry{},
	))
	return db
}

// seedRecipe inserts a recipe row owned by userID and returns it.
func seedRecipe(t *testing.T, db *gorm.DB, userID uuid.UUID, recipe *types.Recipe) *models.Recipe {
	t.Helper()

	row := &models.Recipe{UserID: userID}
	row.FromType(recipe)
	require.NoError(t, db.Create(row).Error)
	return row
}

// seedProfile inserts a user plus profile with default preferences.
func seedProfile(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.UserProfile {
	t.Helper()

	user := &models.User{
		ID:           userID,
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)

	profile := &models.UserProfile{
		UserID:      userID,
		Username:    "user-" + uuid.NewString()[:8],
		Preferences: models.JSONBPreferences{BasePreferences: *types.NewBasePreferences()},
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}
