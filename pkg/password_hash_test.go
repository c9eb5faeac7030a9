package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("squat-day")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("squat-day", passwordHash))
	assert.False(t, CheckPasswordHash("leg-day", passwordHash))

	cost, err := bcrypt.Cost([]byte(passwordHash))
	require.NoError(t, err)
	assert.Equal(t, passwordHashCost, cost)
}

func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("squat-day", ""))
	assert.False(t, CheckPasswordHash("squat-day", "not-a-bcrypt-hash"))
}
