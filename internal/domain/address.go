package domain

import (
	"strings"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// PropertyAddress is the validated postal address of a rental unit.
type PropertyAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// NewPropertyAddress validates and builds an address.
func NewPropertyAddress(street, city, state, postalCode, country string) (PropertyAddress, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	postalCode = strings.TrimSpace(postalCode)
	country = strings.TrimSpace(country)
	if street == "" || city == "" || postalCode == "" {
		return PropertyAddress{}, apperrors.NewValidationError("street, city and postal code are required", nil)
	}
	if country == "" {
		country = "US"
	}
	return PropertyAddress{
		Street:     street,
		City:       city,
		State:      state,
		PostalCode: postalCode,
		Country:    strings.ToUpper(country),
	}, nil
}

func (a PropertyAddress) String() string {
	parts := []string{a.Street, a.City}
	if a.State != "" {
		parts = append(parts, a.State)
	}
	parts = append(parts, a.PostalCode, a.Country)
	return strings.Join(parts, ", ")
}
