package dto

import (
	"time"

	"github.com/mwhayford/rental-service/internal/domain"
)

// CreatePropertyRequest payload.
type CreatePropertyRequest struct {
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Address        AddressPayload      `json:"address"`
	Type           domain.PropertyType `json:"type"`
	Bedrooms       int                 `json:"bedrooms"`
	Bathrooms      int                 `json:"bathrooms"`
	MonthlyRent    MoneyPayload        `json:"monthly_rent"`
	ApplicationFee *MoneyPayload       `json:"application_fee"`
	MetroArea      string              `json:"metro_area"`
}

// UpdatePropertyRequest carries partial updates for a unit.
type UpdatePropertyRequest struct {
	MonthlyRent    *MoneyPayload `json:"monthly_rent"`
	ApplicationFee *MoneyPayload `json:"application_fee"`
	ClearFee       bool          `json:"clear_application_fee"`
	Listed         *bool         `json:"listed"`
}

// ImageRequest attaches or detaches an image URL.
type ImageRequest struct {
	URL string `json:"url"`
}

// PropertyResponse is the public shape of a unit.
type PropertyResponse struct {
	ID             string              `json:"id"`
	OwnerID        string              `json:"owner_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Address        AddressPayload      `json:"address"`
	Type           domain.PropertyType `json:"type"`
	Bedrooms       int                 `json:"bedrooms"`
	Bathrooms      int                 `json:"bathrooms"`
	MonthlyRent    MoneyPayload        `json:"monthly_rent"`
	ApplicationFee *MoneyPayload       `json:"application_fee,omitempty"`
	MetroArea      string              `json:"metro_area"`
	IsListed       bool                `json:"is_listed"`
	IsAvailable    bool                `json:"is_available"`
	Images         []string            `json:"images"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// SettingsRequest updates org-wide defaults.
type SettingsRequest struct {
	DefaultApplicationFee *MoneyPayload `json:"default_application_fee"`
	DefaultCurrency       string        `json:"default_currency"`
}

// SettingsResponse is the public shape of org-wide defaults.
type SettingsResponse struct {
	DefaultApplicationFee *MoneyPayload `json:"default_application_fee,omitempty"`
	DefaultCurrency       string        `json:"default_currency"`
}
