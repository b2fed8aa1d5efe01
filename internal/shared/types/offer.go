package types

// ProductType filters offers by product family.
type ProductType string

const (
	ProductInsurance           ProductType = "insurance"
	ProductHealthInsurance     ProductType = "health-insurance"
	ProductAutomobileInsurance ProductType = "automobile-insurance"
	ProductHomeInsurance       ProductType = "home-insurance"
	ProductConsumerBNPL        ProductType = "consumer-financing:unsecured-loan:bnpl"
)

// ProductTypeStrings converts product types to their wire values.
func ProductTypeStrings(pts []ProductType) []string {
	out := make([]string, len(pts))
	for i, pt := range pts {
		out[i] = string(pt)
	}
	return out
}

// BasicProfileType names a basic profile field an organization may share.
type BasicProfileType string

const (
	ProfileName    BasicProfileType = "NAME"
	ProfileEmail   BasicProfileType = "EMAIL"
	ProfilePhone   BasicProfileType = "PHONE"
	ProfileGender  BasicProfileType = "GENDER"
	ProfileAddress BasicProfileType = "ADDRESS"
	ProfileDOB     BasicProfileType = "DOB"
)

// Organization is an offer provider or a BNPL provider.
type Organization struct {
	ID                    string             `json:"id"`
	Name                  string             `json:"name"`
	Description           string             `json:"description,omitempty"`
	LogoURL               string             `json:"logo_url,omitempty"`
	AppURL                string             `json:"app_url,omitempty"`
	Scopes                []string           `json:"scopes,omitempty"`
	ShareableBasicProfile []BasicProfileType `json:"shareable_basic_profile,omitempty"`
}

// EvaluationResult ranks an offer against the user's claims.
type EvaluationResult struct {
	Rank           int      `json:"rank"`
	UsedScopes     []string `json:"used_scopes"`
	RequiredScopes []string `json:"requested_scopes"`
}

// FiatCurrency is a decimal amount in a currency.
type FiatCurrency struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// InsurancePackage is one purchasable package of an insurance product.
type InsurancePackage struct {
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Premium   *FiatCurrency `json:"premium,omitempty"`
	PolicyURL string        `json:"policy_url,omitempty"`
}

// ProductDetail holds product specific terms.
type ProductDetail struct {
	Packages      []InsurancePackage `json:"packages,omitempty"`
	Title         string             `json:"title,omitempty"`
	Description   string             `json:"description,omitempty"`
	PolicyURL     string             `json:"policy_url,omitempty"`
	MaxAPRPercent int                `json:"max_apr_percent,omitempty"`
	MinAPRPercent int                `json:"min_apr_percent,omitempty"`
	MaxLoanAmount *FiatCurrency      `json:"max_loan_amount,omitempty"`
	MinLoanAmount *FiatCurrency      `json:"min_loan_amount,omitempty"`
}

// Product is the product an offer campaign sells.
type Product struct {
	Code            string         `json:"code"`
	ProductTypeCode string         `json:"product_type_code"`
	DisplayName     string         `json:"display_name"`
	Description     string         `json:"description,omitempty"`
	Detail          *ProductDetail `json:"detail,omitempty"`
	ConsumerID      string         `json:"consumer_id"`
}

// OfferCampaign describes the campaign behind an offer.
type OfferCampaign struct {
	ID                     string             `json:"id,omitempty"`
	Consumer               *Organization      `json:"consumer,omitempty"`
	Name                   string             `json:"name,omitempty"`
	Description            string             `json:"description,omitempty"`
	Published              bool               `json:"published,omitempty"`
	StartDate              string             `json:"start_date,omitempty"`
	EndDate                string             `json:"end_date,omitempty"`
	ExtraSteps             bool               `json:"extra_steps,omitempty"`
	Levels                 []string           `json:"levels,omitempty"`
	ThumbnailURL           string             `json:"thumbnail_url,omitempty"`
	BannerURL              string             `json:"banner_url,omitempty"`
	VerifiedScopes         []string           `json:"verified_scopes,omitempty"`
	UseReferral            bool               `json:"use_referral"`
	Product                *Product           `json:"product,omitempty"`
	RequiredStandardScopes []string           `json:"required_standard_scopes,omitempty"`
	RequiredBasicProfile   []BasicProfileType `json:"required_basic_profile,omitempty"`
}

// OfferData is a single offer eligible for the user.
type OfferData struct {
	ID               string            `json:"id"`
	Code             string            `json:"code"`
	Campaign         OfferCampaign     `json:"campaign"`
	EvaluationResult *EvaluationResult `json:"evaluation_result,omitempty"`
	ProviderID       string            `json:"provider_id,omitempty"`
	Provider         *Organization     `json:"provider,omitempty"`
}

// OfferListInfo is the result of an offer lookup. CredifyID is empty until
// the user has an account on the platform.
type OfferListInfo struct {
	Offers    []OfferData `json:"offers"`
	CredifyID string      `json:"credify_id,omitempty"`
}

// BNPLOfferInfo combines BNPL offers with the providers the user already
// connected.
type BNPLOfferInfo struct {
	Offers    []OfferData    `json:"offers"`
	Providers []Organization `json:"providers"`
	CredifyID string         `json:"credify_id,omitempty"`
}

// Available reports whether a BNPL checkout can start for the user.
func (b BNPLOfferInfo) Available() bool {
	return len(b.Offers) > 0 || len(b.Providers) > 0
}
