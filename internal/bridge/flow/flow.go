// Package flow models the journeys the host can open in the embedded web app.
//
// A Context is a closed set of variants. Each variant knows its entry URL and
// the message the bridge sends once the web app reports it has loaded. Both
// are pure functions of the variant and Settings.
package flow

import (
	"net/url"
	"strings"

	"github.com/GriffinCanCode/servicex/internal/bridge/codec"
	"github.com/GriffinCanCode/servicex/internal/locale"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

// Category groups contexts that share close-button paths and result
// delivery.
type Category string

const (
	CategoryNormalOffer     Category = "normalOffer"
	CategoryBNPL            Category = "bnpl"
	CategoryPassport        Category = "passport"
	CategoryServiceInstance Category = "serviceInstance"
)

// Categories lists every category.
var Categories = []Category{CategoryNormalOffer, CategoryBNPL, CategoryPassport, CategoryServiceInstance}

// Entry paths under the web origin.
const (
	PathLogin           = "/login"
	PathOffer           = "/initial"
	PathPromotionOffers = "/promotion-offers"
	PathServiceInstance = "/service-instance"
	PathBNPL            = "/bnpl"
)

// Settings carries the per-SDK values every context needs.
type Settings struct {
	WebURL   string
	MarketID string
	Language types.Language
	Theme    *types.Theme
}

// Context is one of Profile, SingleOffer, PromotionalOffers, ServiceInstance
// or BNPLCheckout.
type Context interface {
	Category() Category
	EntryURL(s Settings) string
	InitialMessage(s Settings) (codec.SendAction, any)
	flowContext()
}

// Profile opens the user's account pages.
type Profile struct {
	User types.User
}

// SingleOffer redeems one offer.
type SingleOffer struct {
	OfferCode string
	User      types.User
}

// PromotionalOffers shows a batch of offers.
type PromotionalOffers struct {
	OfferCodes []string
	User       types.User
}

// ServiceInstance browses products the user already holds in a market.
type ServiceInstance struct {
	User         types.User
	MarketID     string
	ProductTypes []types.ProductType
}

// BNPLCheckout pays a host order with a BNPL provider.
type BNPLCheckout struct {
	OfferCodes  []string
	PackageCode string
	User        types.User
	Order       types.Order
}

func (Profile) flowContext()           {}
func (SingleOffer) flowContext()       {}
func (PromotionalOffers) flowContext() {}
func (ServiceInstance) flowContext()   {}
func (BNPLCheckout) flowContext()      {}

func (Profile) Category() Category           { return CategoryPassport }
func (SingleOffer) Category() Category       { return CategoryNormalOffer }
func (PromotionalOffers) Category() Category { return CategoryNormalOffer }
func (ServiceInstance) Category() Category   { return CategoryServiceInstance }
func (BNPLCheckout) Category() Category      { return CategoryBNPL }

func (c Profile) EntryURL(s Settings) string           { return entry(s, PathLogin, "") }
func (c SingleOffer) EntryURL(s Settings) string       { return entry(s, PathOffer, "") }
func (c PromotionalOffers) EntryURL(s Settings) string { return entry(s, PathPromotionOffers, "") }
func (c BNPLCheckout) EntryURL(s Settings) string      { return entry(s, PathBNPL, "") }

// EntryURL appends market-id, then one product-types[] per product type.
func (c ServiceInstance) EntryURL(s Settings) string {
	var q strings.Builder
	q.WriteString("market-id=")
	q.WriteString(url.QueryEscape(c.MarketID))
	for _, pt := range c.ProductTypes {
		q.WriteString("&product-types[]=")
		q.WriteString(url.QueryEscape(string(pt)))
	}
	return entry(s, PathServiceInstance, q.String())
}

func entry(s Settings, path, query string) string {
	u := locale.AddLocaleToURL(strings.TrimRight(s.WebURL, "/")+path, s.Language)
	if query != "" {
		u += "?" + query
	}
	return u
}

func (c Profile) InitialMessage(s Settings) (codec.SendAction, any) {
	return codec.ActionLogin, loginPayload(c.User, s.Language)
}

func (c ServiceInstance) InitialMessage(s Settings) (codec.SendAction, any) {
	return codec.ActionLogin, loginPayload(c.User, s.Language)
}

func (c SingleOffer) InitialMessage(s Settings) (codec.SendAction, any) {
	return codec.ActionStartRedemption, codec.StartRedemptionPayload{
		OfferCode: c.OfferCode,
		Profile:   c.User,
		Theme:     s.Theme,
	}
}

func (c PromotionalOffers) InitialMessage(s Settings) (codec.SendAction, any) {
	return codec.ActionShowPromotionOffers, c.PromotionPayload(s)
}

// PromotionPayload is also resent when the promotion list finishes loading.
func (c PromotionalOffers) PromotionPayload(s Settings) codec.PromotionOffersPayload {
	return codec.PromotionOffersPayload{
		OfferCodes: nonNil(c.OfferCodes),
		Profile:    c.User,
		Theme:      s.Theme,
	}
}

func (c BNPLCheckout) InitialMessage(s Settings) (codec.SendAction, any) {
	return codec.ActionStartRedemption, codec.StartBNPLPayload{
		OfferCodes:  nonNil(c.OfferCodes),
		PackageCode: c.PackageCode,
		Profile:     c.User,
		Order:       c.Order,
		MarketID:    s.MarketID,
		Theme:       s.Theme,
	}
}

func loginPayload(u types.User, lang types.Language) codec.LoginPayload {
	p := codec.LoginPayload{
		PhoneNumber: u.PhoneNumber,
		CountryCode: u.CountryCode,
		FullName:    u.LocalizedName(lang),
	}
	if strings.TrimSpace(u.CredifyID) != "" {
		p.CredifyID = u.CredifyID
	}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// UserOf returns the user a context was opened for.
func UserOf(c Context) types.User {
	switch v := c.(type) {
	case Profile:
		return v.User
	case SingleOffer:
		return v.User
	case PromotionalOffers:
		return v.User
	case ServiceInstance:
		return v.User
	case BNPLCheckout:
		return v.User
	default:
		return types.User{}
	}
}

// UsesLoginPage reports whether the context signs in through the login page.
func UsesLoginPage(c Context) bool {
	switch c.(type) {
	case Profile, ServiceInstance:
		return true
	default:
		return false
	}
}
