package codec

import "github.com/GriffinCanCode/servicex/internal/shared/types"

// Inbound payloads.

// CreateUserPayload carries the platform id of a freshly created user.
type CreateUserPayload struct {
	CredifyID string `json:"credifyId"`
}

// TransactionStatusPayload reports COMPLETED, PENDING, CANCELED or FAILED.
type TransactionStatusPayload struct {
	Status string `json:"status"`
}

// CloseButtonPathsPayload lists path suffixes per flow category.
type CloseButtonPathsPayload struct {
	NormalOffer     []string `json:"normalOffer"`
	BNPL            []string `json:"bnpl"`
	Passport        []string `json:"passport"`
	ServiceInstance []string `json:"serviceInstance"`
}

// RedirectPayload asks the host to open a URL outside the surface.
type RedirectPayload struct {
	RedirectURL string `json:"redirectUrl"`
}

// Outbound payloads.

// PushClaimResultPayload answers createUserCompleted.
type PushClaimResultPayload struct {
	IsSuccess bool `json:"isSuccess"`
}

// LoginPayload signs the user in on profile and service-instance pages.
type LoginPayload struct {
	PhoneNumber string `json:"phoneNumber"`
	CountryCode string `json:"countryCode"`
	FullName    string `json:"fullName"`
	CredifyID   string `json:"credifyId,omitempty"`
}

// StartRedemptionPayload opens a single offer.
type StartRedemptionPayload struct {
	OfferCode string       `json:"offerCode"`
	Profile   types.User   `json:"profile"`
	Theme     *types.Theme `json:"theme,omitempty"`
}

// PromotionOffersPayload lists the offers of a promotion.
type PromotionOffersPayload struct {
	OfferCodes []string     `json:"offerCodes"`
	Profile    types.User   `json:"profile"`
	Theme      *types.Theme `json:"theme,omitempty"`
}

// StartBNPLPayload starts a BNPL checkout for an order.
type StartBNPLPayload struct {
	OfferCodes  []string     `json:"offerCodes"`
	PackageCode string       `json:"packageCode,omitempty"`
	Profile     types.User   `json:"profile"`
	Order       types.Order  `json:"order"`
	MarketID    string       `json:"marketId"`
	Theme       *types.Theme `json:"theme,omitempty"`
}
