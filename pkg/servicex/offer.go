package servicex

import (
	"context"

	"github.com/GriffinCanCode/servicex/internal/bridge/delivery"
	"github.com/GriffinCanCode/servicex/internal/bridge/flow"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
	"github.com/GriffinCanCode/servicex/internal/shared/utils"
	"github.com/GriffinCanCode/servicex/internal/usecase"
)

// Offer runs offer redemption.
type Offer struct {
	sdk *SDK
}

// PresentByCode opens the redemption of one offer. claim pushes claim tokens
// once the user has an account; done receives the final status once.
func (o *Offer) PresentByCode(host Host, offerCode string, user types.User, claim ClaimTask, done func(RedemptionResult)) (*Session, error) {
	if err := utils.ValidateOfferStart(user); err != nil {
		return nil, err
	}
	fc := flow.SingleOffer{OfferCode: offerCode, User: user}
	return o.sdk.open(host, fc, delivery.Callbacks{ClaimTask: claim, Redemption: done})
}

// PresentPromotionOffers opens a list of offers.
func (o *Offer) PresentPromotionOffers(host Host, offerCodes []string, user types.User, claim ClaimTask, done func(RedemptionResult)) (*Session, error) {
	if len(offerCodes) == 0 {
		return nil, ErrNoOfferCodes
	}
	if err := utils.ValidateOfferStart(user); err != nil {
		return nil, err
	}
	fc := flow.PromotionalOffers{OfferCodes: offerCodes, User: user}
	return o.sdk.open(host, fc, delivery.Callbacks{ClaimTask: claim, Redemption: done})
}

// GetOffers lists the offers user is eligible for.
func (o *Offer) GetOffers(ctx context.Context, user types.User, productTypes []types.ProductType) (*OfferListInfo, error) {
	return o.sdk.offers.FetchOffers(ctx, usecase.QueryFor(user, productTypes))
}

// GetOffersAsync is GetOffers with the result delivered on the main loop.
func (o *Offer) GetOffersAsync(ctx context.Context, user types.User, productTypes []types.ProductType, done func(*OfferListInfo, error)) {
	async(o.sdk.exec, func() (*OfferListInfo, error) {
		return o.GetOffers(ctx, user, productTypes)
	}, done)
}
