package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricoach/backend/internal/models"
)

func TestAuthService_Register(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, "test-secret")

	t.Run("creates user, profile and token", func(t *testing.T) {
		token, err := svc.Register("Ana", "ana@example.com", "password123", "ana")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		var user models.User
		require.NoError(t, db.Where("email = ?", "ana@example.com").First(&user).Error)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.NotEqual(t, "password123", user.PasswordHash)

		var profile models.UserProfile
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
		assert.Equal(t, "ana", profile.Username)
		assert.NotNil(t, profile.Preferences.LikedFoods)
		assert.Nil(t, profile.Intelligence.Profile)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		_, err := svc.Register("Ana Bis", "ana@example.com", "otherpass", "anabis")
		assert.ErrorIs(t, err, ErrUserExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, "test-secret")

	_, err := svc.Register("Bruno", "bruno@example.com", "password123", "bruno")
	require.NoError(t, err)

	t.Run("valid credentials yield a token", func(t *testing.T) {
		token, err := svc.Login("bruno@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := svc.Login("bruno@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		_, err := svc.Login("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, "test-secret")

	token, err := svc.Register("Carla", "carla@example.com", "password123", "carla")
	require.NoError(t, err)

	t.Run("round-trips the claims", func(t *testing.T) {
		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)

		var user models.User
		require.NoError(t, db.Where("email = ?", "carla@example.com").First(&user).Error)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "carla", claims.Username)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := NewAuthService(db, "different-secret")
		otherToken, err := other.Login("carla@example.com", "password123")
		require.NoError(t, err)

		_, err = svc.ValidateToken(otherToken)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
