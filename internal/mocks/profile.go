package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// MockProfileService is a mock implementation of the IProfileService interface
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileService) Intelligence(ctx context.Context, userID uuid.UUID) (*types.IntelligenceProfile, *types.BasePreferences, error) {
	args := m.Called(ctx, userID)
	var intel *types.IntelligenceProfile
	if args.Get(0) != nil {
		intel = args.Get(0).(*types.IntelligenceProfile)
	}
	var prefs *types.BasePreferences
	if args.Get(1) != nil {
		prefs = args.Get(1).(*types.BasePreferences)
	}
	return intel, prefs, args.Error(2)
}

func (m *MockProfileService) SaveIntelligence(ctx context.Context, userID uuid.UUID, intel *types.IntelligenceProfile, prefs *types.BasePreferences) error {
	args := m.Called(ctx, userID, intel, prefs)
	return args.Error(0)
}

func (m *MockProfileService) Logout(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
