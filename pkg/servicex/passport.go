package servicex

import (
	"github.com/GriffinCanCode/servicex/internal/bridge/delivery"
	"github.com/GriffinCanCode/servicex/internal/bridge/flow"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
	"github.com/GriffinCanCode/servicex/internal/shared/utils"
)

// Passport opens the user's account pages.
type Passport struct {
	sdk *SDK
}

// ShowMypage opens the account home. claim pushes claim tokens when the web
// app creates the user; dismissed runs once when the session closes.
func (p *Passport) ShowMypage(host Host, user types.User, claim ClaimTask, dismissed func()) (*Session, error) {
	if err := utils.ValidateProfile(user); err != nil {
		return nil, err
	}
	return p.sdk.open(host, flow.Profile{User: user}, delivery.Callbacks{ClaimTask: claim, Dismiss: dismissed})
}

// ShowDetail opens the products the user holds in a market. An empty
// marketID falls back to the configured one.
func (p *Passport) ShowDetail(host Host, user types.User, marketID string, productTypes []types.ProductType, dismissed func()) (*Session, error) {
	if marketID == "" {
		marketID = p.sdk.cfg.SDK.MarketID
	}
	if err := utils.ValidateServiceInstance(user, marketID); err != nil {
		return nil, err
	}
	fc := flow.ServiceInstance{User: user, MarketID: marketID, ProductTypes: productTypes}
	return p.sdk.open(host, fc, delivery.Callbacks{Dismiss: dismissed})
}
