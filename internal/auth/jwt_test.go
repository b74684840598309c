package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("sess-1", "7", "preschool", "secret", time.Minute)
	require.NoError(t, err)

	claims, err := Parse(tok.AccessToken, "secret", "preschool")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseRejects(t *testing.T) {
	tok, err := Issue("sess-1", "7", "preschool", "secret", time.Minute)
	require.NoError(t, err)

	_, err = Parse(tok.AccessToken, "other", "preschool")
	assert.Error(t, err)

	_, err = Parse(tok.AccessToken, "secret", "someone-else")
	assert.EqualError(t, err, "issuer mismatch")

	expired, err := Issue("sess-1", "7", "preschool", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired.AccessToken, "secret", "preschool")
	assert.Error(t, err)

	noSession, err := Issue("", "7", "preschool", "secret", time.Minute)
	require.NoError(t, err)
	_, err = Parse(noSession.AccessToken, "secret", "preschool")
	assert.EqualError(t, err, "token has no session")
}
