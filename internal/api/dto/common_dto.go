package dto

import "github.com/mwhayford/rental-service/internal/domain"

// MoneyPayload is the wire shape for monetary values, in minor units.
type MoneyPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// ToMoney validates and converts the payload.
func (m MoneyPayload) ToMoney() (domain.Money, error) {
	return domain.NewMoney(m.Amount, m.Currency)
}

// MoneyFromDomain converts a domain value for responses.
func MoneyFromDomain(m domain.Money) MoneyPayload {
	return MoneyPayload{Amount: m.Amount, Currency: m.Currency}
}

// MoneyPtrFromDomain converts an optional domain value.
func MoneyPtrFromDomain(m *domain.Money) *MoneyPayload {
	if m == nil {
		return nil
	}
	payload := MoneyFromDomain(*m)
	return &payload
}

// AddressPayload is the wire shape for a property address.
type AddressPayload struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
