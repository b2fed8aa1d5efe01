// Package testutil provides shared mocks for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/servicex/internal/api/requests"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

// MockPlatformAPI is a mock implementation of usecase.API.
type MockPlatformAPI struct {
	mock.Mock
}

// Offers mocks the Offers method.
func (m *MockPlatformAPI) Offers(ctx context.Context, q requests.OffersQuery) (*types.OfferListInfo, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.OfferListInfo), args.Error(1)
}

// CompletedBNPLProviders mocks the CompletedBNPLProviders method.
func (m *MockPlatformAPI) CompletedBNPLProviders(ctx context.Context, credifyID string) ([]types.Organization, error) {
	args := m.Called(ctx, credifyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Organization), args.Error(1)
}

// NewMockPlatformAPI creates a mock that fails the test on unmet
// expectations.
func NewMockPlatformAPI(t *testing.T) *MockPlatformAPI {
	t.Helper()
	m := new(MockPlatformAPI)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// TestUser returns a user that passes every validation rule.
func TestUser() types.User {
	return types.User{
		ID:          "user-1",
		FirstName:   "Linh",
		LastName:    "Tran",
		Email:       "linh@example.com",
		CountryCode: "+84",
		PhoneNumber: "0987654321",
	}
}
