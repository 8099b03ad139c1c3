package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaintextCompare(t *testing.T) {
	t.Parallel()

	h := Plaintext{}
	stored, err := h.Hash("pw123")
	require.NoError(t, err)
	assert.Equal(t, "pw123", stored)
	assert.True(t, h.Compare(stored, "pw123"))
	assert.False(t, h.Compare(stored, "pw124"))
}

func TestBcryptCompare(t *testing.T) {
	t.Parallel()

	h := Bcrypt{Cost: 4}
	stored, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", stored)
	assert.True(t, h.Compare(stored, "hunter2"))
	assert.False(t, h.Compare(stored, "hunter3"))
}

func TestIdentityTokens(t *testing.T) {
	t.Parallel()

	codec := IdentityTokens{}
	token, err := codec.Issue("user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", token)

	userID, err := codec.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = codec.Resolve("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTTokensRoundTrip(t *testing.T) {
	t.Parallel()

	codec := JWTTokens{Secret: []byte("super-secret"), TTL: time.Hour}
	token, err := codec.Issue("user-42")
	require.NoError(t, err)
	require.NotEqual(t, "user-42", token)

	userID, err := codec.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestJWTTokensExpired(t *testing.T) {
	t.Parallel()

	codec := JWTTokens{Secret: []byte("super-secret"), TTL: -time.Second}
	token, err := codec.Issue("user-42")
	require.NoError(t, err)

	_, err = codec.Resolve(token)
	assert.Error(t, err)
}

func TestJWTTokensWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := JWTTokens{Secret: []byte("right"), TTL: time.Hour}
	token, err := issuer.Issue("user-42")
	require.NoError(t, err)

	verifier := JWTTokens{Secret: []byte("wrong"), TTL: time.Hour}
	_, err = verifier.Resolve(token)
	assert.Error(t, err)
}
