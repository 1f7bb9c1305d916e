package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// PropertyType enumerates rental unit types.
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "APARTMENT"
	PropertyTypeHouse      PropertyType = "HOUSE"
	PropertyTypeCondo      PropertyType = "CONDO"
	PropertyTypeTownhouse  PropertyType = "TOWNHOUSE"
	PropertyTypeCommercial PropertyType = "COMMERCIAL"
)

// Property is the aggregate for a rental unit.
type Property struct {
	AggregateRoot

	ID             string
	OwnerID        string
	Title          string
	Description    string
	Address        PropertyAddress
	Type           PropertyType
	Bedrooms       int
	Bathrooms      int
	MonthlyRent    Money
	ApplicationFee *Money
	MetroArea      string
	IsListed       bool
	IsAvailable    bool
	Images         []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PropertyParams carries input for a new property.
type PropertyParams struct {
	OwnerID        string
	Title          string
	Description    string
	Address        PropertyAddress
	Type           PropertyType
	Bedrooms       int
	Bathrooms      int
	MonthlyRent    Money
	ApplicationFee *Money
	MetroArea      string
}

// NewProperty validates input and returns an unlisted, available property.
func NewProperty(p PropertyParams) (*Property, error) {
	if p.OwnerID == "" {
		return nil, apperrors.NewValidationError("owner is required", nil)
	}
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if p.MonthlyRent.IsZero() {
		return nil, apperrors.NewValidationError("monthly rent is required", nil)
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 {
		return nil, apperrors.NewValidationError("bedrooms and bathrooms cannot be negative", nil)
	}
	if p.Type == "" {
		p.Type = PropertyTypeApartment
	}
	return &Property{
		ID:             uuid.NewString(),
		OwnerID:        p.OwnerID,
		Title:          p.Title,
		Description:    strings.TrimSpace(p.Description),
		Address:        p.Address,
		Type:           p.Type,
		Bedrooms:       p.Bedrooms,
		Bathrooms:      p.Bathrooms,
		MonthlyRent:    p.MonthlyRent,
		ApplicationFee: p.ApplicationFee,
		MetroArea:      strings.TrimSpace(p.MetroArea),
		IsAvailable:    true,
	}, nil
}

// List publishes the property to the public listing surface.
func (p *Property) List() error {
	if p.IsListed {
		return apperrors.NewInvalidState("property is already listed")
	}
	p.IsListed = true
	p.record("property_listed", p.ID, map[string]any{
		"title":        p.Title,
		"metro_area":   p.MetroArea,
		"monthly_rent": p.MonthlyRent,
	})
	return nil
}

// Unlist removes the property from the public listing surface.
func (p *Property) Unlist() error {
	if !p.IsListed {
		return apperrors.NewInvalidState("property is not listed")
	}
	p.IsListed = false
	p.record("property_unlisted", p.ID, nil)
	return nil
}

// MarkUnavailable flags the unit as occupied or off-market.
func (p *Property) MarkUnavailable() {
	p.IsAvailable = false
}

// MarkAvailable flags the unit as open for applications.
func (p *Property) MarkAvailable() {
	p.IsAvailable = true
}

// UpdateRent changes the advertised monthly rent.
func (p *Property) UpdateRent(rent Money) error {
	if rent.IsZero() {
		return apperrors.NewValidationError("monthly rent is required", nil)
	}
	p.MonthlyRent = rent
	return nil
}

// SetApplicationFee sets the property-specific application fee override.
func (p *Property) SetApplicationFee(fee *Money) {
	p.ApplicationFee = fee
}

// AddImage appends an image URL; duplicates are ignored.
func (p *Property) AddImage(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return apperrors.NewValidationError("image url is required", nil)
	}
	for _, existing := range p.Images {
		if existing == url {
			return nil
		}
	}
	p.Images = append(p.Images, url)
	return nil
}

// RemoveImage removes an image URL if present.
func (p *Property) RemoveImage(url string) {
	for i, existing := range p.Images {
		if existing == url {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			return
		}
	}
}
