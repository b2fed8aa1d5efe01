package types

import "strings"

// Language is a UI language understood by the web app.
type Language string

const (
	LanguageVietnamese Language = "vi"
	LanguageJapanese   Language = "ja"
	LanguageEnglish    Language = "en"
)

// LastNameFirst reports whether names are displayed family name first.
func (l Language) LastNameFirst() bool {
	return l == LanguageVietnamese || l == LanguageJapanese
}

// User is the host's end user as seen by the embedded web app.
type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	FullName    string `json:"fullName,omitempty"`
	Email       string `json:"email"`
	CredifyID   string `json:"credifyId,omitempty"`
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
}

// LocalizedName returns FullName when set, otherwise first and last name in
// the order the language expects. An unset language keeps family name first.
func (u User) LocalizedName(lang Language) string {
	if u.FullName != "" {
		return u.FullName
	}
	if lang == "" || lang.LastNameFirst() {
		return strings.TrimSpace(u.LastName + " " + u.FirstName)
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Order identifies the host order paid through a BNPL checkout.
type Order struct {
	OrderID string `json:"orderId"`
}

// RedemptionResult is the outcome of an offer or BNPL flow. Users who back out
// of a flow end up as canceled.
type RedemptionResult string

const (
	RedemptionPending   RedemptionResult = "pending"
	RedemptionCanceled  RedemptionResult = "canceled"
	RedemptionCompleted RedemptionResult = "completed"
)
