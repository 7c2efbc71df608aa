package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libratrack/lms/pkg/auth"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"admin", "librarian", "member"} {
		role, err := auth.ParseRole(s)
		require.NoError(t, err)
		require.Equal(t, auth.Role(s), role)
	}

	_, err := auth.ParseRole("superuser")
	require.Error(t, err)
	_, err = auth.ParseRole("")
	require.Error(t, err)
}

func TestRoleCapabilities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role  auth.Role
		staff bool
	}{
		{auth.RoleAdmin, true},
		{auth.RoleLibrarian, true},
		{auth.RoleMember, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.staff, tt.role.IsStaff(), string(tt.role))
		require.Equal(t, tt.staff, tt.role.CanManageCatalog(), string(tt.role))
		require.Equal(t, tt.staff, tt.role.CanManageBorrowings(), string(tt.role))
		require.Equal(t, tt.staff, tt.role.CanViewReports(), string(tt.role))
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	t.Parallel()

	p := auth.Principal{UserID: 42, Username: "reader", Role: auth.RoleMember}
	pair, jti, err := auth.NewTokenPair(p)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	require.NotEmpty(t, jti)

	claims, err := auth.ParseToken(pair.Access)
	require.NoError(t, err)
	got, err := claims.Principal()
	require.NoError(t, err)
	require.Equal(t, p, got)
	require.Empty(t, claims.ID)

	refreshClaims, err := auth.ParseToken(pair.Refresh)
	require.NoError(t, err)
	require.Equal(t, jti, refreshClaims.ID)
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	_, err := auth.ParseToken("not.a.token")
	require.Error(t, err)
}
