package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "aniboard-test",
		Duration: time.Hour,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ts := testTokens()
	u := &User{ID: "u1", Username: "alice", TokenVersion: 3}

	raw, exp, err := ts.Sign(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := ts.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, "aniboard-test", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, _, err := testTokens().Sign(&User{ID: "u1"})
	require.NoError(t, err)

	other := TokenService{Secret: []byte("different"), Duration: time.Hour}
	_, err = other.Parse(raw)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	ts := testTokens()
	ts.Duration = -time.Minute

	raw, _, err := ts.Sign(&User{ID: "u1"})
	require.NoError(t, err)

	_, err = ts.Parse(raw)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := testTokens().Parse("not-a-token")
	assert.Error(t, err)
}
