// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r!Secret")
	require.NoError(t, err)
	assert.NotContains(t, hash, "Sup3r!Secret")

	ok, err := VerifyPassword("Sup3r!Secret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("sup3r!secret", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := HashPassword("Sup3r!Secret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	ok, err := VerifyPasswordTimingSafe("anything", nil)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Sup3r!Secret", true},
		{"Ab1!abcd", true},
		{"Ab1!abc", false},
		{"alllower1!", false},
		{"ALLUPPER1!", false},
		{"NoDigits!!", false},
		{"NoSymbol12", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.NotEqual(t, byte('0'), code[0])
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
