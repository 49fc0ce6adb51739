package auth

import (
	"testing"
	"time"

	"github.com/Jan540/account-manager/internal/common"
	"github.com/Jan540/account-manager/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = models.User{ID: 7, Login: "alice", FirstName: "Alice", LastName: "Adams"}

func TestIssuer_IssueAndParse(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("super-secret"), time.Hour)

	tok, err := iss.Issue(alice)
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, 7, claims.UserID)
	assert.NotNil(t, claims.ExpiresAt)

	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err, "jti must be a uuid")
}

func TestIssuer_TokensAreUnique(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("k"), 0)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tok, err := iss.Issue(alice)
		require.NoError(t, err)
		require.False(t, seen[tok], "token issued twice")
		seen[tok] = true
	}
}

func TestIssuer_ZeroValidityHasNoExpiry(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer([]byte("k"), 0).Issue(alice)
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) { return []byte("k"), nil })
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestIssuer_ParseExpired(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("secret"), time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tok, err := iss.Issue(alice)
	require.NoError(t, err)

	_, err = iss.Parse(tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIssuer_ParseWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer([]byte("right-secret"), time.Hour).Issue(alice)
	require.NoError(t, err)

	_, err = NewIssuer([]byte("wrong-secret"), time.Hour).Parse(tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIssuer_ParseMalformed(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer([]byte("k"), time.Hour).Parse("not.a.jwt")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestUUIDIssuer(t *testing.T) {
	t.Parallel()

	a, err := UUIDIssuer{}.Issue(alice)
	require.NoError(t, err)
	b, err := UUIDIssuer{}.Issue(alice)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	_, err = uuid.Parse(a)
	assert.NoError(t, err)
}
