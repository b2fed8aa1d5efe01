package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizedName(t *testing.T) {
	tests := []struct {
		name string
		user User
		lang Language
		want string
	}{
		{"full name wins", User{FirstName: "Lan", LastName: "Nguyen", FullName: "Nguyen Thi Lan"}, LanguageEnglish, "Nguyen Thi Lan"},
		{"vietnamese order", User{FirstName: "Lan", LastName: "Nguyen"}, LanguageVietnamese, "Nguyen Lan"},
		{"japanese order", User{FirstName: "Taro", LastName: "Yamada"}, LanguageJapanese, "Yamada Taro"},
		{"english order", User{FirstName: "John", LastName: "Doe"}, LanguageEnglish, "John Doe"},
		{"unset language", User{FirstName: "John", LastName: "Doe"}, "", "Doe John"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.LocalizedName(tt.lang))
		})
	}
}

func TestUserJSONOmitsOptionalFields(t *testing.T) {
	data, err := json.Marshal(User{ID: "1", PhoneNumber: "0381239876", CountryCode: "+84"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotContains(t, m, "fullName")
	assert.NotContains(t, m, "credifyId")
	assert.Equal(t, "0381239876", m["phoneNumber"])
}

func TestDefaultTheme(t *testing.T) {
	th := DefaultTheme()

	assert.Equal(t, 5.0, th.InputFieldRadius)
	assert.Equal(t, 30.0, th.PageHeaderRadius)
	assert.Equal(t, 10.0, th.ModelRadius)
	assert.Equal(t, 50.0, th.ButtonRadius)
	assert.Equal(t, "0px 4px 30px rgba(0, 0, 0, 0.1)", th.BoxShadow)
	assert.Equal(t, "#AB2185", th.Color.PrimaryBrandyStart)
	assert.Equal(t, "Roboto", th.Font.PrimaryFontFamily)
}

func TestBNPLAvailable(t *testing.T) {
	assert.False(t, BNPLOfferInfo{}.Available())
	assert.True(t, BNPLOfferInfo{Providers: []Organization{{ID: "p1"}}}.Available())
	assert.True(t, BNPLOfferInfo{Offers: []OfferData{{ID: "o1"}}}.Available())
}

func TestOfferDataDecodesSnakeCase(t *testing.T) {
	raw := `{"id":"o1","code":"OFFER-1","provider_id":"p1","campaign":{"name":"Home","use_referral":true,"product":{"code":"h1","product_type_code":"home-insurance","display_name":"Home","consumer_id":"c1"}},"evaluation_result":{"rank":2,"used_scopes":["a"],"requested_scopes":["b"]}}`

	var offer OfferData
	require.NoError(t, json.Unmarshal([]byte(raw), &offer))

	assert.Equal(t, "OFFER-1", offer.Code)
	assert.Equal(t, "p1", offer.ProviderID)
	assert.True(t, offer.Campaign.UseReferral)
	require.NotNil(t, offer.Campaign.Product)
	assert.Equal(t, string(ProductHomeInsurance), offer.Campaign.Product.ProductTypeCode)
	require.NotNil(t, offer.EvaluationResult)
	assert.Equal(t, []string{"b"}, offer.EvaluationResult.RequiredScopes)
}
