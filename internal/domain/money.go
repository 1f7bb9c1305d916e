package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// Money is an amount in minor units (cents) with an ISO 4217 currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewMoney validates and builds a Money value.
func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, apperrors.NewValidationError("amount cannot be negative", map[string]any{"amount": amount})
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, apperrors.NewValidationError("currency must be a 3-letter ISO code", map[string]any{"currency": currency})
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// IsZero reports whether the value is the zero Money.
func (m Money) IsZero() bool {
	return m.Amount == 0 && m.Currency == ""
}

// MinorUnits returns the amount in minor units, as payment gateways expect.
func (m Money) MinorUnits() int64 {
	return m.Amount
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.Amount/100, m.Amount%100, m.Currency)
}
