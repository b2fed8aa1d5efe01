package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/servicex/internal/bridge/codec"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

var testUser = types.User{
	ID:          "u1",
	FirstName:   "Lan",
	LastName:    "Nguyen",
	Email:       "lan@example.com",
	CountryCode: "+84",
	PhoneNumber: "0381239876",
}

func TestEntryURL(t *testing.T) {
	s := Settings{WebURL: "https://x.test/"}

	tests := []struct {
		name string
		ctx  Context
		want string
	}{
		{"profile", Profile{User: testUser}, "https://x.test/login"},
		{"offer", SingleOffer{OfferCode: "O1", User: testUser}, "https://x.test/initial"},
		{"promotion", PromotionalOffers{OfferCodes: []string{"A"}, User: testUser}, "https://x.test/promotion-offers"},
		{"bnpl", BNPLCheckout{OfferCodes: []string{"B"}, User: testUser}, "https://x.test/bnpl"},
		{
			"service instance",
			ServiceInstance{User: testUser, MarketID: "m 1", ProductTypes: []types.ProductType{types.ProductInsurance, types.ProductHomeInsurance}},
			"https://x.test/service-instance?market-id=m+1&product-types[]=insurance&product-types[]=home-insurance",
		},
		{"service instance without types", ServiceInstance{User: testUser, MarketID: "m1"}, "https://x.test/service-instance?market-id=m1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ctx.EntryURL(s)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, tt.ctx.EntryURL(s), "entry url must be deterministic")
		})
	}
}

func TestEntryURLWithLanguage(t *testing.T) {
	s := Settings{WebURL: "https://x.test", Language: types.LanguageVietnamese}

	assert.Equal(t, "https://x.test/login/vi-VN", Profile{User: testUser}.EntryURL(s))
	assert.Equal(t,
		"https://x.test/service-instance/vi-VN?market-id=m1",
		ServiceInstance{User: testUser, MarketID: "m1"}.EntryURL(s))
}

func TestCategory(t *testing.T) {
	assert.Equal(t, CategoryPassport, Profile{}.Category())
	assert.Equal(t, CategoryNormalOffer, SingleOffer{}.Category())
	assert.Equal(t, CategoryNormalOffer, PromotionalOffers{}.Category())
	assert.Equal(t, CategoryServiceInstance, ServiceInstance{}.Category())
	assert.Equal(t, CategoryBNPL, BNPLCheckout{}.Category())
}

func TestInitialMessage(t *testing.T) {
	theme := types.DefaultTheme()
	s := Settings{WebURL: "https://x.test", MarketID: "m1", Theme: &theme}

	t.Run("profile sends login without credify id", func(t *testing.T) {
		action, payload := Profile{User: testUser}.InitialMessage(s)
		assert.Equal(t, codec.ActionLogin, action)
		assert.Equal(t, codec.LoginPayload{
			PhoneNumber: "0381239876",
			CountryCode: "+84",
			FullName:    "Nguyen Lan",
		}, payload)
	})

	t.Run("service instance keeps credify id", func(t *testing.T) {
		u := testUser
		u.CredifyID = "c-1"
		action, payload := ServiceInstance{User: u, MarketID: "m1"}.InitialMessage(s)
		assert.Equal(t, codec.ActionLogin, action)
		assert.Equal(t, "c-1", payload.(codec.LoginPayload).CredifyID)
	})

	t.Run("blank credify id is omitted", func(t *testing.T) {
		u := testUser
		u.CredifyID = "   "
		_, payload := Profile{User: u}.InitialMessage(s)
		assert.Empty(t, payload.(codec.LoginPayload).CredifyID)
	})

	t.Run("single offer", func(t *testing.T) {
		action, payload := SingleOffer{OfferCode: "O1", User: testUser}.InitialMessage(s)
		assert.Equal(t, codec.ActionStartRedemption, action)
		assert.Equal(t, codec.StartRedemptionPayload{OfferCode: "O1", Profile: testUser, Theme: &theme}, payload)
	})

	t.Run("promotional offers", func(t *testing.T) {
		action, payload := PromotionalOffers{User: testUser}.InitialMessage(s)
		assert.Equal(t, codec.ActionShowPromotionOffers, action)
		assert.Equal(t, []string{}, payload.(codec.PromotionOffersPayload).OfferCodes)
	})

	t.Run("bnpl", func(t *testing.T) {
		ctx := BNPLCheckout{OfferCodes: []string{"B1"}, PackageCode: "P1", User: testUser, Order: types.Order{OrderID: "ord-1"}}
		action, payload := ctx.InitialMessage(s)
		assert.Equal(t, codec.ActionStartRedemption, action)
		assert.Equal(t, codec.StartBNPLPayload{
			OfferCodes:  []string{"B1"},
			PackageCode: "P1",
			Profile:     testUser,
			Order:       types.Order{OrderID: "ord-1"},
			MarketID:    "m1",
			Theme:       &theme,
		}, payload)
	})
}

func TestUserOf(t *testing.T) {
	for _, ctx := range []Context{
		Profile{User: testUser},
		SingleOffer{User: testUser},
		PromotionalOffers{User: testUser},
		ServiceInstance{User: testUser},
		BNPLCheckout{User: testUser},
	} {
		assert.Equal(t, testUser, UserOf(ctx))
	}
}

func TestUsesLoginPage(t *testing.T) {
	assert.True(t, UsesLoginPage(Profile{}))
	assert.True(t, UsesLoginPage(ServiceInstance{}))
	assert.False(t, UsesLoginPage(SingleOffer{}))
	assert.False(t, UsesLoginPage(BNPLCheckout{}))
}
