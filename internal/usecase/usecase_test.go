package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/servicex/internal/api/client"
	"github.com/GriffinCanCode/servicex/internal/api/requests"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
	"github.com/GriffinCanCode/servicex/internal/usecase"
	"github.com/GriffinCanCode/servicex/tests/helpers/testutil"
)

func newBNPL(api usecase.API) *usecase.BNPL {
	return usecase.NewBNPL(usecase.NewOffers(api, nil), usecase.NewOrganizations(api))
}

func bnplQuery(u types.User) requests.OffersQuery {
	return usecase.QueryFor(u, []types.ProductType{types.ProductConsumerBNPL})
}

func TestFetchOffers(t *testing.T) {
	api := testutil.NewMockPlatformAPI(t)
	user := testutil.TestUser()
	q := usecase.QueryFor(user, []types.ProductType{types.ProductInsurance})
	want := &types.OfferListInfo{Offers: []types.OfferData{{Code: "OFF1"}}, CredifyID: "cred-1"}
	api.On("Offers", mock.Anything, q).Return(want, nil)

	got, err := usecase.NewOffers(api, nil).FetchOffers(context.Background(), q)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "user-1", q.LocalID)
	assert.Equal(t, "0987654321", q.PhoneNumber)
}

func TestBNPLAvailability(t *testing.T) {
	offer := types.OfferData{Code: "BNPL1"}
	provider := types.Organization{ID: "p1"}

	tests := []struct {
		name          string
		offers        *types.OfferListInfo
		providers     []types.Organization
		wantAvailable bool
		wantCredifyID string
	}{
		{
			name:          "offers without account",
			offers:        &types.OfferListInfo{Offers: []types.OfferData{offer}},
			wantAvailable: true,
		},
		{
			name:          "nothing without account",
			offers:        &types.OfferListInfo{Offers: []types.OfferData{}},
			wantAvailable: false,
		},
		{
			name:          "connected provider only",
			offers:        &types.OfferListInfo{Offers: []types.OfferData{}, CredifyID: "cred-1"},
			providers:     []types.Organization{provider},
			wantAvailable: true,
			wantCredifyID: "cred-1",
		},
		{
			name:          "account with nothing",
			offers:        &types.OfferListInfo{Offers: []types.OfferData{}, CredifyID: "cred-1"},
			providers:     []types.Organization{},
			wantAvailable: false,
			wantCredifyID: "cred-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testutil.NewMockPlatformAPI(t)
			user := testutil.TestUser()
			api.On("Offers", mock.Anything, bnplQuery(user)).Return(tt.offers, nil)
			if tt.offers.CredifyID != "" {
				api.On("CompletedBNPLProviders", mock.Anything, tt.offers.CredifyID).Return(tt.providers, nil)
			}

			available, credifyID, err := newBNPL(api).Availability(context.Background(), user)

			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, available)
			assert.Equal(t, tt.wantCredifyID, credifyID)
			if tt.offers.CredifyID == "" {
				api.AssertNotCalled(t, "CompletedBNPLProviders", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestBNPLOffersAndProvidersErrors(t *testing.T) {
	t.Run("offers failure", func(t *testing.T) {
		api := testutil.NewMockPlatformAPI(t)
		user := testutil.TestUser()
		api.On("Offers", mock.Anything, bnplQuery(user)).Return(nil, client.ErrParse)

		_, err := newBNPL(api).OffersAndProviders(context.Background(), user)

		assert.ErrorIs(t, err, client.ErrParse)
	})

	t.Run("providers failure", func(t *testing.T) {
		api := testutil.NewMockPlatformAPI(t)
		user := testutil.TestUser()
		api.On("Offers", mock.Anything, bnplQuery(user)).
			Return(&types.OfferListInfo{Offers: []types.OfferData{}, CredifyID: "cred-1"}, nil)
		api.On("CompletedBNPLProviders", mock.Anything, "cred-1").
			Return(nil, &client.RequestError{Message: "boom"})

		_, err := newBNPL(api).OffersAndProviders(context.Background(), user)

		var reqErr *client.RequestError
		assert.ErrorAs(t, err, &reqErr)
	})
}
