package password_test

import (
	"salon/shared/password"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		expectedError error
	}{
		{name: "valid password", password: "s3cret-pass"},
		{name: "unicode password", password: "päss wörd"},
		{name: "empty password", password: "", expectedError: password.ErrEmptyPassword},
		{name: "longer than bcrypt allows", password: strings.Repeat("a", password.MaxLength+1), expectedError: password.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.NoError(t, password.Verify(tt.password, hash))
		})
	}
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("correct horse")
	require.NoError(t, err)

	tests := []struct {
		name          string
		password      string
		hash          string
		expectedError error
	}{
		{name: "match", password: "correct horse", hash: hash},
		{name: "mismatch", password: "battery staple", hash: hash, expectedError: password.ErrInvalidPassword},
		{name: "empty password", password: "", hash: hash, expectedError: password.ErrInvalidPassword},
		{name: "empty hash", password: "correct horse", hash: "", expectedError: password.ErrInvalidPassword},
		{name: "malformed hash", password: "correct horse", hash: "not-a-bcrypt-hash", expectedError: password.ErrVerifyingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			if tt.expectedError == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := password.Hash("same")
	require.NoError(t, err)

	second, err := password.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNeedsRehash(t *testing.T) {
	hash, err := password.Hash("rotate me")
	require.NoError(t, err)

	assert.False(t, password.NeedsRehash(hash))
	assert.True(t, password.NeedsRehash("not-a-bcrypt-hash"))

	original := password.Cost
	password.Cost = original + 1

	t.Cleanup(func() { password.Cost = original })

	assert.True(t, password.NeedsRehash(hash))
}
