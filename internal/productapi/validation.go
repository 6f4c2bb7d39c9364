package productapi

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Field limits enforced by the reference server. The client only checks what
// the form needs to build a request: a name and a numeric price.
const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
)

// RequireName rejects a blank product name.
func RequireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewFieldValidationError("name", "name is required")
	}
	return nil
}

// ValidateName checks that a product name is present and not too long.
func ValidateName(name string) error {
	if err := RequireName(name); err != nil {
		return err
	}
	if utf8.RuneCountInString(strings.TrimSpace(name)) > MaxNameLength {
		return NewFieldValidationError("name", fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}
	return nil
}

// ValidateDescription checks the optional description length.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return NewFieldValidationError("description", fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength))
	}
	return nil
}

// ParsePrice parses a price typed by the user. A leading "$" is accepted
// because that is how prices are displayed. Range checks are left to the API.
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "$")
	if raw == "" {
		return decimal.Zero, NewFieldValidationError("price", "price is required")
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, NewFieldValidationError("price", fmt.Sprintf("price %q is not a number", raw))
	}
	return price, nil
}

// ValidatePrice rejects negative prices.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return NewFieldValidationError("price", "price must not be negative")
	}
	return nil
}

// ParseDraft builds a draft from raw form values. Name and description are
// sent exactly as typed so an unchanged edit round-trips; the first failing
// field is reported.
func ParseDraft(name, description, price string) (Draft, error) {
	if err := RequireName(name); err != nil {
		return Draft{}, err
	}
	p, err := ParsePrice(price)
	if err != nil {
		return Draft{}, err
	}

	return Draft{
		Name:        name,
		Description: description,
		Price:       p,
	}, nil
}

// Validate checks an already-typed draft. The reference server uses this on
// every create and update.
func (d Draft) Validate() error {
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	if err := ValidateDescription(d.Description); err != nil {
		return err
	}
	return ValidatePrice(d.Price)
}
