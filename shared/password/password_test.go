package password_test

import (
	"concierge/shared/password"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid password", input: "admin123"},
		{name: "unicode password", input: "пароль123"},
		{name: "empty password", input: "", wantErr: password.ErrEmptyPassword},
		{name: "longer than bcrypt allows", input: strings.Repeat("a", 100), wantErr: password.ErrHashingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}

			require.NoError(t, err)
			assert.NoError(t, password.Verify(tt.input, hash))
		})
	}
}

func TestHashWithCost(t *testing.T) {
	hash, err := password.HashWithCost("admin123", password.StaffCost)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, password.StaffCost, cost)
}

func TestVerify(t *testing.T) {
	valid, err := password.Hash("admin123")
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		hash    string
		wantErr error
	}{
		{name: "match", input: "admin123", hash: valid},
		{name: "mismatch", input: "admin124", hash: valid, wantErr: password.ErrInvalidPassword},
		{name: "empty password", input: "", hash: valid, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", input: "admin123", hash: "", wantErr: password.ErrInvalidPassword},
		{name: "malformed hash", input: "admin123", hash: "not-a-hash", wantErr: password.ErrVerifyingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.input, tt.hash)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := password.Hash("admin123")
	require.NoError(t, err)
	second, err := password.Hash("admin123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
