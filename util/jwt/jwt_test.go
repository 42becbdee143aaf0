package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundTrip(t *testing.T) {
	tok, err := Issue("test-secret", 42, []string{"rent", "own"}, 1)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := ParseAuth("Bearer "+tok, "test-secret")
	require.NoError(t, err)
	require.Equal(t, float64(42), claims["sub"])

	caps, ok := claims["caps"].([]any)
	require.True(t, ok)
	require.ElementsMatch(t, []any{"rent", "own"}, caps)

	// A bare token without the Bearer prefix parses too.
	claims, err = ParseAuth(tok, "test-secret")
	require.NoError(t, err)
	require.Equal(t, float64(42), claims["sub"])
}

func TestParseAuth_Rejects(t *testing.T) {
	tok, err := Issue("test-secret", 42, nil, 1)
	require.NoError(t, err)

	_, err = ParseAuth("Bearer "+tok, "other-secret")
	require.Error(t, err)

	_, err = ParseAuth("", "test-secret")
	require.Error(t, err)

	_, err = ParseAuth("Bearer ", "test-secret")
	require.Error(t, err)
}
