package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestNewPasswordHasher_CostRange(t *testing.T) {
	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{name: "min", cost: bcrypt.MinCost},
		{name: "default", cost: bcrypt.DefaultCost},
		{name: "max", cost: bcrypt.MaxCost},
		{name: "below min", cost: bcrypt.MinCost - 1, wantErr: true},
		{name: "above max", cost: bcrypt.MaxCost + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewPasswordHasher(tt.cost)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCost)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestHash_RoundTrip(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, h.Verify("secret1", hash))
	assert.False(t, h.Verify("secret2", hash))
}

func TestHash_SaltedPerCall(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret1", first))
	assert.True(t, h.Verify("secret1", second))
}

func TestHash_UsesConfiguredCost(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost + 1)
	require.NoError(t, err)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestHash_InvalidInput(t *testing.T) {
	h := newTestHasher(t)

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "73 bytes", input: strings.Repeat("a", MaxPasswordBytes+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Hash(tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestHash_MaxLengthAccepted(t *testing.T) {
	h := newTestHasher(t)
	password := strings.Repeat("a", MaxPasswordBytes)

	hash, err := h.Hash(password)
	require.NoError(t, err)
	assert.True(t, h.Verify(password, hash))
}

func TestVerify_MalformedHash(t *testing.T) {
	h := newTestHasher(t)

	assert.False(t, h.Verify("secret1", ""))
	assert.False(t, h.Verify("secret1", "not-a-bcrypt-hash"))
}
