package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hashed, "s3cret-pass"))
	assert.Error(t, ComparePassword(hashed, "wrong-pass"))
}

func TestHashPasswordClampsInvalidCost(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
