package servicex

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/servicex/internal/bridge/delivery"
	"github.com/GriffinCanCode/servicex/internal/bridge/flow"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
	"github.com/GriffinCanCode/servicex/internal/shared/utils"
)

// BNPLCompletion receives the outcome of a checkout.
type BNPLCompletion func(result RedemptionResult, orderID string, paymentCompleted bool)

// Availability is the answer to whether BNPL checkout can start.
type Availability struct {
	Available bool
	CredifyID string
}

// BNPL runs buy-now-pay-later checkout.
type BNPL struct {
	sdk *SDK
}

// PresentByCodes opens checkout for the given offers. packageCode may be
// empty.
func (b *BNPL) PresentByCodes(host Host, offerCodes []string, packageCode string, user types.User, order types.Order, claim ClaimTask, done BNPLCompletion) (*Session, error) {
	if err := utils.ValidateOfferStart(user); err != nil {
		return nil, err
	}
	fc := flow.BNPLCheckout{OfferCodes: offerCodes, PackageCode: packageCode, User: user, Order: order}
	return b.sdk.open(host, fc, delivery.Callbacks{ClaimTask: claim, BNPL: done})
}

// Present looks up the user's BNPL offers and opens checkout with all of
// them. It fails with ErrBNPLUnavailable when the user has neither offers nor
// a connected provider. Call it on the main loop.
func (b *BNPL) Present(ctx context.Context, host Host, user types.User, order types.Order, claim ClaimTask, done BNPLCompletion) (*Session, error) {
	if err := utils.ValidateOfferStart(user); err != nil {
		return nil, err
	}
	info, err := b.sdk.bnpl.OffersAndProviders(ctx, user)
	if err != nil {
		return nil, err
	}
	if !info.Available() {
		return nil, ErrBNPLUnavailable
	}
	return b.PresentByCodes(host, offerCodes(info.Offers), "", user, order, claim, done)
}

// PresentAsync is Present with the lookup on a worker goroutine. The session
// opens on the main loop and is handed to opened.
func (b *BNPL) PresentAsync(ctx context.Context, host Host, user types.User, order types.Order, claim ClaimTask, done BNPLCompletion, opened func(*Session, error)) {
	if err := utils.ValidateOfferStart(user); err != nil {
		b.sdk.exec.Post(func() { opened(nil, err) })
		return
	}
	async(b.sdk.exec, func() (*types.BNPLOfferInfo, error) {
		return b.sdk.bnpl.OffersAndProviders(ctx, user)
	}, func(info *types.BNPLOfferInfo, err error) {
		switch {
		case err != nil:
			b.sdk.log.Warn("BNPL lookup failed", zap.Error(err))
			opened(nil, err)
		case !info.Available():
			opened(nil, ErrBNPLUnavailable)
		default:
			opened(b.PresentByCodes(host, offerCodes(info.Offers), "", user, order, claim, done))
		}
	})
}

// Availability reports whether checkout can start for user.
func (b *BNPL) Availability(ctx context.Context, user types.User) (Availability, error) {
	available, credifyID, err := b.sdk.bnpl.Availability(ctx, user)
	if err != nil {
		return Availability{}, err
	}
	return Availability{Available: available, CredifyID: credifyID}, nil
}

// AvailabilityAsync is Availability with the result delivered on the main
// loop.
func (b *BNPL) AvailabilityAsync(ctx context.Context, user types.User, done func(Availability, error)) {
	async(b.sdk.exec, func() (Availability, error) {
		return b.Availability(ctx, user)
	}, done)
}

func offerCodes(offers []types.OfferData) []string {
	codes := make([]string, 0, len(offers))
	for _, o := range offers {
		codes = append(codes, o.Code)
	}
	return codes
}
