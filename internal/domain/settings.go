package domain

import "time"

// ApplicationSettings holds org-wide defaults consulted by workflows.
type ApplicationSettings struct {
	ID                    string
	DefaultApplicationFee *Money
	DefaultCurrency       string
	UpdatedAt             time.Time
}

// FallbackApplicationFee is charged when neither the property nor the
// org settings define an application fee.
func FallbackApplicationFee(currency string) Money {
	if currency == "" {
		currency = "USD"
	}
	return Money{Amount: 3500, Currency: currency}
}
