// Package usecase retrieves offers and BNPL providers for a host user.
package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/servicex/internal/api/requests"
	"github.com/GriffinCanCode/servicex/internal/logging"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

// ErrBNPLUnavailable means the user has neither BNPL offers nor a connected
// BNPL provider.
var ErrBNPLUnavailable = errors.New("BNPL is not available for this user")

// API is the slice of the platform API the use cases need.
type API interface {
	Offers(ctx context.Context, q requests.OffersQuery) (*types.OfferListInfo, error)
	CompletedBNPLProviders(ctx context.Context, credifyID string) ([]types.Organization, error)
}

// Remote implements API over an authenticated client.
type Remote struct {
	Doer requests.Doer
}

func (r Remote) Offers(ctx context.Context, q requests.OffersQuery) (*types.OfferListInfo, error) {
	return requests.Offers(ctx, r.Doer, q)
}

func (r Remote) CompletedBNPLProviders(ctx context.Context, credifyID string) ([]types.Organization, error) {
	return requests.CompletedBNPLProviders(ctx, r.Doer, credifyID)
}

// QueryFor builds an offers query for user.
func QueryFor(user types.User, productTypes []types.ProductType) requests.OffersQuery {
	return requests.OffersQuery{
		LocalID:      user.ID,
		PhoneNumber:  user.PhoneNumber,
		CountryCode:  user.CountryCode,
		CredifyID:    user.CredifyID,
		ProductTypes: productTypes,
	}
}

// Offers fetches offer lists.
type Offers struct {
	api API
	log *logging.Logger
}

func NewOffers(api API, log *logging.Logger) *Offers {
	return &Offers{api: api, log: logging.OrNop(log).Named("offers")}
}

// FetchOffers lists the offers the user is eligible for.
func (u *Offers) FetchOffers(ctx context.Context, q requests.OffersQuery) (*types.OfferListInfo, error) {
	info, err := u.api.Offers(ctx, q)
	if err != nil {
		return nil, err
	}
	u.log.Debug("Offers fetched", zap.Int("count", len(info.Offers)), zap.Bool("has_credify_id", info.CredifyID != ""))
	return info, nil
}

// Organizations fetches provider relationships.
type Organizations struct {
	api API
}

func NewOrganizations(api API) *Organizations {
	return &Organizations{api: api}
}

// FetchConnectedBNPLProviders lists the BNPL providers the user completed.
func (u *Organizations) FetchConnectedBNPLProviders(ctx context.Context, credifyID string) ([]types.Organization, error) {
	return u.api.CompletedBNPLProviders(ctx, credifyID)
}

// BNPL combines offers and providers to decide whether checkout can start.
type BNPL struct {
	offers *Offers
	orgs   *Organizations
}

func NewBNPL(offers *Offers, orgs *Organizations) *BNPL {
	return &BNPL{offers: offers, orgs: orgs}
}

// OffersAndProviders fetches BNPL offers, then the connected providers when
// the platform knows the user.
func (u *BNPL) OffersAndProviders(ctx context.Context, user types.User) (*types.BNPLOfferInfo, error) {
	info, err := u.offers.FetchOffers(ctx, QueryFor(user, []types.ProductType{types.ProductConsumerBNPL}))
	if err != nil {
		return nil, err
	}

	out := &types.BNPLOfferInfo{
		Offers:    info.Offers,
		Providers: []types.Organization{},
		CredifyID: info.CredifyID,
	}
	if info.CredifyID == "" {
		return out, nil
	}

	providers, err := u.orgs.FetchConnectedBNPLProviders(ctx, info.CredifyID)
	if err != nil {
		return nil, err
	}
	out.Providers = providers
	return out, nil
}

// Availability reports whether BNPL checkout can start and the user's
// correlation id if known.
func (u *BNPL) Availability(ctx context.Context, user types.User) (available bool, credifyID string, err error) {
	info, err := u.OffersAndProviders(ctx, user)
	if err != nil {
		return false, "", err
	}
	return info.Available(), info.CredifyID, nil
}
