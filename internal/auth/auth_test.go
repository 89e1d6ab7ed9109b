package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	user, err := Login("ada@example.com", "s3cret", "Ada")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, "Ada", user.Name)
}

func TestLogin_MissingCredentials(t *testing.T) {
	for _, tc := range []struct{ email, password string }{
		{"", "pw"},
		{"ada@example.com", ""},
		{"   ", "pw"},
		{"", ""},
	} {
		_, err := Login(tc.email, tc.password, "")
		require.ErrorIs(t, err, ErrMissingCredentials)
	}
}

func TestLogin_NameDefaultsToEmailLocalPart(t *testing.T) {
	user, err := Login("ada@example.com", "pw", "")
	require.NoError(t, err)
	require.Equal(t, "ada", user.Name)

	user, err = Login("nodomain", "pw", "  ")
	require.NoError(t, err)
	require.Equal(t, "nodomain", user.Name)
}

func TestLogin_MintsUniqueIDs(t *testing.T) {
	a, err := Login("ada@example.com", "pw", "")
	require.NoError(t, err)
	b, err := Login("ada@example.com", "pw", "")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
}
