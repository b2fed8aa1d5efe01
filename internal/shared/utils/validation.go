package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

// Phone number length limits, in characters after trimming.
const (
	MinPhoneLength = 8
	MaxPhoneLength = 12
)

// MaxInboundSize bounds a single inbound message body from the web app.
const MaxInboundSize = 256 * 1024

// Field labels used in validation messages.
const (
	FieldUserID      = "User Id"
	FieldMarketID    = "Market Id"
	FieldPhoneNumber = "Phone number"
)

// FieldProblem is one failing field.
type FieldProblem struct {
	Field   string
	Missing bool
}

func (p FieldProblem) String() string {
	if p.Missing {
		return fmt.Sprintf("'%s' is required.", p.Field)
	}
	return fmt.Sprintf("'%s' is invalid.", p.Field)
}

// ValidationError blocks a flow from starting. The host shows Error() to the
// user as an alert.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// Has reports whether field is among the problems.
func (e *ValidationError) Has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

type collector struct {
	problems []FieldProblem
}

func (c *collector) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.problems = append(c.problems, FieldProblem{Field: field, Missing: true})
	}
}

func (c *collector) phone(user types.User) {
	if !IsPhoneValid(user.CountryCode, user.PhoneNumber) {
		c.problems = append(c.problems, FieldProblem{Field: FieldPhoneNumber})
	}
}

func (c *collector) err() error {
	if len(c.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: c.problems}
}

// IsPhoneValid requires a non-blank country code and a trimmed phone number
// of 8 to 12 characters.
func IsPhoneValid(countryCode, phoneNumber string) bool {
	if strings.TrimSpace(countryCode) == "" {
		return false
	}
	n := utf8.RuneCountInString(strings.TrimSpace(phoneNumber))
	return n >= MinPhoneLength && n <= MaxPhoneLength
}

// ValidateProfile checks a user before opening the profile page.
func ValidateProfile(user types.User) error {
	var c collector
	c.phone(user)
	return c.err()
}

// ValidateServiceInstance checks a user and market before opening the
// service-instance page.
func ValidateServiceInstance(user types.User, marketID string) error {
	var c collector
	c.required(FieldMarketID, marketID)
	c.phone(user)
	return c.err()
}

// ValidateOfferStart checks a user before an offer or BNPL flow.
func ValidateOfferStart(user types.User) error {
	var c collector
	c.required(FieldUserID, user.ID)
	c.phone(user)
	return c.err()
}

// ValidateInboundSize rejects oversized inbound bodies before decoding.
func ValidateInboundSize(data []byte) error {
	if len(data) > MaxInboundSize {
		return fmt.Errorf("inbound message size %d bytes exceeds maximum %d bytes", len(data), MaxInboundSize)
	}
	return nil
}
