package storefront_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	storefront "github.com/goliatone/go-storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *storefront.TokenService {
	t.Helper()

	ts, err := storefront.NewTokenService(
		[]byte("access-secret"),
		[]byte("refresh-secret"),
		accessTTL,
		refreshTTL,
		"test-issuer",
		nil,
	)
	require.NoError(t, err)
	return ts
}

func TestNewTokenService(t *testing.T) {
	t.Run("requires both secrets", func(t *testing.T) {
		_, err := storefront.NewTokenService(nil, []byte("x"), time.Minute, time.Hour, "", nil)
		assert.Error(t, err)

		_, err = storefront.NewTokenService([]byte("x"), nil, time.Minute, time.Hour, "", nil)
		assert.Error(t, err)
	})

	t.Run("creates service with nil logger", func(t *testing.T) {
		ts, err := storefront.NewTokenService([]byte("a"), []byte("r"), time.Minute, time.Hour, "", nil)
		assert.NoError(t, err)
		assert.NotNil(t, ts)
	})
}

func TestTokenServiceIssueAndVerify(t *testing.T) {
	ts := newTestTokenService(t, 15*time.Minute, 168*time.Hour)

	t.Run("access token round trip", func(t *testing.T) {
		raw, err := ts.IssueAccess("user-123", storefront.RoleSeller)
		require.NoError(t, err)
		require.NotEmpty(t, raw)

		claims, err := ts.VerifyAccess(raw)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, string(storefront.RoleSeller), claims.Role())
		assert.Equal(t, storefront.TokenKindAccess, claims.Kind)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		raw, err := ts.IssueRefresh("user-123", storefront.RoleBuyer)
		require.NoError(t, err)

		claims, err := ts.VerifyRefresh(raw)
		require.NoError(t, err)
		assert.Equal(t, storefront.TokenKindRefresh, claims.Kind)
	})

	t.Run("empty subject is rejected", func(t *testing.T) {
		_, err := ts.IssueAccess("", storefront.RoleBuyer)
		assert.Error(t, err)
	})

	t.Run("refresh token is not a valid access token", func(t *testing.T) {
		raw, err := ts.IssueRefresh("user-123", storefront.RoleBuyer)
		require.NoError(t, err)

		_, err = ts.VerifyAccess(raw)
		assert.Error(t, err)
		assert.True(t, storefront.IsMalformedError(err))
	})

	t.Run("access token is not a valid refresh token", func(t *testing.T) {
		raw, err := ts.IssueAccess("user-123", storefront.RoleBuyer)
		require.NoError(t, err)

		_, err = ts.VerifyRefresh(raw)
		assert.Error(t, err)
		assert.True(t, storefront.IsMalformedError(err))
	})

	t.Run("token signed with the wrong secret fails", func(t *testing.T) {
		other, err := storefront.NewTokenService(
			[]byte("other-access"),
			[]byte("other-refresh"),
			15*time.Minute,
			168*time.Hour,
			"test-issuer",
			nil,
		)
		require.NoError(t, err)

		raw, err := other.IssueAccess("user-123", storefront.RoleBuyer)
		require.NoError(t, err)

		_, err = ts.VerifyAccess(raw)
		assert.Error(t, err)
		assert.True(t, storefront.IsMalformedError(err))
	})

	t.Run("wrong issuer fails", func(t *testing.T) {
		other, err := storefront.NewTokenService(
			[]byte("access-secret"),
			[]byte("refresh-secret"),
			15*time.Minute,
			168*time.Hour,
			"another-issuer",
			nil,
		)
		require.NoError(t, err)

		raw, err := other.IssueAccess("user-123", storefront.RoleBuyer)
		require.NoError(t, err)

		_, err = ts.VerifyAccess(raw)
		assert.Error(t, err)
	})

	t.Run("garbage token fails", func(t *testing.T) {
		_, err := ts.VerifyAccess("not.a.token")
		assert.Error(t, err)
		assert.True(t, storefront.IsMalformedError(err))
	})
}

func TestTokenServiceExpiry(t *testing.T) {
	ts := newTestTokenService(t, -time.Minute, -time.Minute)

	raw, err := ts.IssueAccess("user-123", storefront.RoleBuyer)
	require.NoError(t, err)

	_, err = ts.VerifyAccess(raw)
	assert.Error(t, err)
	assert.Equal(t, storefront.ErrTokenExpired, err)
	assert.True(t, storefront.IsTokenExpiredError(err))
}

func TestTokenClaimsShape(t *testing.T) {
	ts := newTestTokenService(t, 15*time.Minute, 168*time.Hour)

	raw, err := ts.IssueAccess("user-123", storefront.RoleAdmin)
	require.NoError(t, err)

	// The wire payload carries sub, role, and type so non-Go consumers can
	// branch on the token kind.
	token, _, err := jwt.NewParser().ParseUnverified(raw, &storefront.TokenClaims{})
	require.NoError(t, err)

	claims, ok := token.Claims.(*storefront.TokenClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "admin", claims.UserRole)
	assert.Equal(t, storefront.TokenKindAccess, claims.Kind)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)
}
