package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	c := Claims{UserID: 42, Email: "lib@example.com", Role: "librarian", FullName: "Lena Park"}

	tok, err := Issue("test-secret", c, 1)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := ParseAuth("Bearer "+tok, "test-secret")
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestParseAuth_WrongSecret(t *testing.T) {
	tok, err := Issue("secret-a", Claims{UserID: 1, Role: "admin"}, 1)
	require.NoError(t, err)

	_, err = ParseAuth(tok, "secret-b")
	require.Error(t, err)
}

func TestParseAuth_Missing(t *testing.T) {
	_, err := ParseAuth("", "s")
	require.Error(t, err)

	_, err = ParseAuth("Bearer ", "s")
	require.Error(t, err)
}
