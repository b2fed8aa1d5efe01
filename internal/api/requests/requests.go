// Package requests defines the platform API calls the bridge makes.
package requests

import (
	"context"
	"net/http"

	"github.com/GriffinCanCode/servicex/internal/api/client"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

// Doer runs an authenticated API request. *client.Client implements it.
type Doer interface {
	Do(ctx context.Context, req client.Request, out any) error
}

const (
	pathOffers            = "v1/claim-providers/offers"
	pathCompletedBNPL     = "v1/integration/bnpl-consumers/completed-bnpl-providers"
	EndpointOffers        = "offers"
	EndpointBNPLProviders = "bnpl_providers"
)

// OffersQuery selects offers for one host user. LocalID is the host's user
// id; the other identifiers are sent only when set.
type OffersQuery struct {
	LocalID      string
	PhoneNumber  string
	CountryCode  string
	CredifyID    string
	ProductTypes []types.ProductType
}

type offersBody struct {
	LocalID      string   `json:"local_id"`
	PhoneNumber  string   `json:"phone_number,omitempty"`
	CountryCode  string   `json:"country_code,omitempty"`
	CredifyID    string   `json:"credify_id,omitempty"`
	ProductTypes []string `json:"product_types"`
}

// Offers lists the offers the user is eligible for.
func Offers(ctx context.Context, api Doer, q OffersQuery) (*types.OfferListInfo, error) {
	var out types.OfferListInfo
	err := api.Do(ctx, client.Request{
		Endpoint: EndpointOffers,
		Method:   http.MethodPost,
		Path:     pathOffers,
		Body: offersBody{
			LocalID:      q.LocalID,
			PhoneNumber:  q.PhoneNumber,
			CountryCode:  q.CountryCode,
			CredifyID:    q.CredifyID,
			ProductTypes: types.ProductTypeStrings(q.ProductTypes),
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Offers == nil {
		out.Offers = []types.OfferData{}
	}
	return &out, nil
}

type providersData struct {
	Providers []types.Organization `json:"providers"`
}

// CompletedBNPLProviders lists the BNPL providers the user already finished
// onboarding with.
func CompletedBNPLProviders(ctx context.Context, api Doer, credifyID string) ([]types.Organization, error) {
	var out providersData
	err := api.Do(ctx, client.Request{
		Endpoint: EndpointBNPLProviders,
		Method:   http.MethodGet,
		Path:     pathCompletedBNPL,
		Query:    map[string]string{"credify_id": credifyID},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Providers == nil {
		out.Providers = []types.Organization{}
	}
	return out.Providers, nil
}
