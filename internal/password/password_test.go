package password

import (
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var cheapArgon2id = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashers_RoundTrip(t *testing.T) {
	hashers := map[string]Hasher{
		"argon2id": NewArgon2id(cheapArgon2id),
		"bcrypt":   NewBcrypt(bcrypt.MinCost),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("password1")
			require.NoError(t, err)
			assert.NotEqual(t, "password1", hash)

			ok, err := h.Compare("password1", hash)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Compare("password2", hash)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestHash_IsSalted(t *testing.T) {
	h := NewArgon2id(cheapArgon2id)
	first, err := h.Hash("password1")
	require.NoError(t, err)
	second, err := h.Hash("password1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCompare_AcceptsEitherEncoding(t *testing.T) {
	legacy, err := NewBcrypt(bcrypt.MinCost).Hash("password1")
	require.NoError(t, err)

	ok, err := NewArgon2id(cheapArgon2id).Compare("password1", legacy)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompare_UnknownFormat(t *testing.T) {
	_, err := NewArgon2id(nil).Compare("password1", "plaintext")
	assert.ErrorIs(t, err, ErrUnknownHashFormat)
}

func TestNewBcrypt_ClampsInvalidCost(t *testing.T) {
	h := NewBcrypt(100).(bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
