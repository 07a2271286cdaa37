package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := newTestHasher()

	first, err := h.Hash("correct-pw")
	require.NoError(t, err)
	second, err := h.Hash("correct-pw")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "salts should differ between calls")
	assert.True(t, h.Verify("correct-pw", first))
	assert.True(t, h.Verify("correct-pw", second))
	assert.False(t, h.Verify("wrong-pw", first))
}

func TestVerifyMalformedHash(t *testing.T) {
	h := newTestHasher()

	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "not bcrypt", hash: "invalidhash"},
		{name: "truncated", hash: "$2a$04$abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, h.Verify("correct-pw", tt.hash))
		})
	}
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	_, err := newTestHasher().Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).cost)
}
