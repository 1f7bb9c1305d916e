package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

func newTestProperty(t *testing.T) *Property {
	t.Helper()
	property, err := NewProperty(PropertyParams{
		OwnerID:     "owner-1",
		Title:       "Maple Street Duplex",
		MonthlyRent: Money{Amount: 180000, Currency: "USD"},
		MetroArea:   "Seattle",
	})
	require.NoError(t, err)
	return property
}

func TestNewPropertyDefaults(t *testing.T) {
	property := newTestProperty(t)
	assert.Equal(t, PropertyTypeApartment, property.Type)
	assert.True(t, property.IsAvailable)
	assert.False(t, property.IsListed)
	assert.Empty(t, property.PullEvents())
}

func TestNewPropertyValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PropertyParams)
	}{
		{"missing owner", func(p *PropertyParams) { p.OwnerID = "" }},
		{"blank title", func(p *PropertyParams) { p.Title = "  " }},
		{"zero rent", func(p *PropertyParams) { p.MonthlyRent = Money{} }},
		{"negative bedrooms", func(p *PropertyParams) { p.Bedrooms = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := PropertyParams{
				OwnerID:     "owner-1",
				Title:       "Maple Street Duplex",
				MonthlyRent: Money{Amount: 180000, Currency: "USD"},
			}
			tc.mutate(&params)
			_, err := NewProperty(params)
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		})
	}
}

func TestPropertyListUnlist(t *testing.T) {
	property := newTestProperty(t)

	require.NoError(t, property.List())
	assert.True(t, property.IsListed)
	assert.True(t, apperrors.IsCode(property.List(), "INVALID_STATE"))

	require.NoError(t, property.Unlist())
	assert.False(t, property.IsListed)
	assert.True(t, apperrors.IsCode(property.Unlist(), "INVALID_STATE"))

	names := make([]string, 0, 2)
	for _, ev := range property.PullEvents() {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{"property_listed", "property_unlisted"}, names)
}

func TestPropertyAvailabilityToggle(t *testing.T) {
	property := newTestProperty(t)

	property.MarkUnavailable()
	assert.False(t, property.IsAvailable)
	property.MarkAvailable()
	assert.True(t, property.IsAvailable)
}

func TestPropertyUpdateRent(t *testing.T) {
	property := newTestProperty(t)

	require.NoError(t, property.UpdateRent(Money{Amount: 190000, Currency: "USD"}))
	assert.Equal(t, int64(190000), property.MonthlyRent.Amount)

	err := property.UpdateRent(Money{})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestPropertySetApplicationFee(t *testing.T) {
	property := newTestProperty(t)
	assert.Nil(t, property.ApplicationFee)

	fee := Money{Amount: 5000, Currency: "USD"}
	property.SetApplicationFee(&fee)
	require.NotNil(t, property.ApplicationFee)
	assert.Equal(t, fee, *property.ApplicationFee)

	property.SetApplicationFee(nil)
	assert.Nil(t, property.ApplicationFee)
}

func TestPropertyImages(t *testing.T) {
	property := newTestProperty(t)
	require.NoError(t, property.AddImage("https://cdn.example.com/front.jpg"))
	require.NoError(t, property.AddImage("https://cdn.example.com/kitchen.jpg"))

	// Re-adding the same URL is a no-op.
	require.NoError(t, property.AddImage("https://cdn.example.com/front.jpg"))
	assert.Len(t, property.Images, 2)

	err := property.AddImage("  ")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	property.RemoveImage("https://cdn.example.com/front.jpg")
	assert.Equal(t, []string{"https://cdn.example.com/kitchen.jpg"}, property.Images)

	property.RemoveImage("missing.jpg")
	assert.Len(t, property.Images, 1)
}
