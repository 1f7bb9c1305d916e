package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(150000, "USD")
	require.NoError(t, err)
	assert.Equal(t, int64(150000), m.Amount)
	assert.Equal(t, "USD", m.Currency)

	_, err = NewMoney(-1, "USD")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = NewMoney(100, "usd4")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestMoneyString(t *testing.T) {
	m := Money{Amount: 3500, Currency: "USD"}
	assert.Equal(t, "35.00 USD", m.String())

	m = Money{Amount: 150099, Currency: "EUR"}
	assert.Equal(t, "1500.99 EUR", m.String())
}

func TestMoneyIsZero(t *testing.T) {
	assert.True(t, Money{}.IsZero())
	assert.False(t, Money{Amount: 1, Currency: "USD"}.IsZero())
}

func TestFallbackApplicationFee(t *testing.T) {
	fee := FallbackApplicationFee("")
	assert.Equal(t, Money{Amount: 3500, Currency: "USD"}, fee)

	fee = FallbackApplicationFee("EUR")
	assert.Equal(t, "EUR", fee.Currency)
	assert.Equal(t, int64(3500), fee.Amount)
}
