package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/config"
	"github.com/uiineed/todo-service/internal/domain/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, accessTTL, refreshTTL time.Duration) *JWTService {
	t.Helper()
	svc, err := NewJWTService(config.JWTConfig{
		Secret:          testSecret,
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
	}, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	_, err := NewJWTService(config.JWTConfig{Secret: "too-short"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestNewJWTService_GeneratesSecretWhenEmpty(t *testing.T) {
	svc, err := NewJWTService(config.JWTConfig{
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)

	token, _, err := svc.IssueAccessToken(1, "openid-1")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "openid-1", claims.OpenID)
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour, 2*time.Hour)

	token, expiresAt, err := svc.IssueAccessToken(42, "openid-42")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "openid-42", claims.OpenID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	principal, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, int64(42), principal.UserID)
	assert.Equal(t, "openid-42", principal.OpenID)
}

func TestJWTService_ExpiredTokenIsExpiredNotTampered(t *testing.T) {
	svc := newTestService(t, -time.Minute, -time.Minute)

	token, _, err := svc.IssueAccessToken(7, "openid-7")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, errors.ErrTokenExpired)
	assert.NotErrorIs(t, err, errors.ErrTokenSignatureInvalid)
}

func TestJWTService_TamperedSignature(t *testing.T) {
	svc := newTestService(t, time.Hour, time.Hour)

	token, _, err := svc.IssueAccessToken(7, "openid-7")
	require.NoError(t, err)

	// Flip a character early in the signature segment, where every bit is
	// significant.
	i := strings.LastIndex(token, ".") + 1
	flipped := byte('A')
	if token[i] == 'A' {
		flipped = 'B'
	}
	tampered := token[:i] + string(flipped) + token[i+1:]

	_, err = svc.ValidateAccessToken(tampered)
	assert.ErrorIs(t, err, errors.ErrTokenSignatureInvalid)
}

func TestJWTService_TruncatedSignature(t *testing.T) {
	svc := newTestService(t, time.Hour, time.Hour)

	token, _, err := svc.IssueAccessToken(7, "openid-7")
	require.NoError(t, err)

	i := strings.LastIndex(token, ".")
	require.Positive(t, i)

	_, err = svc.ValidateAccessToken(token[:i+1])
	require.Error(t, err)
	assert.True(t, errors.IsTokenInvalid(err))
}

func TestJWTService_DifferentKeyRejected(t *testing.T) {
	issuer := newTestService(t, time.Hour, time.Hour)
	other, err := NewJWTService(config.JWTConfig{
		Secret:          strings.Repeat("x", MinSecretLength),
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)

	token, _, err := issuer.IssueAccessToken(7, "openid-7")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, errors.ErrTokenSignatureInvalid)
}

func TestJWTService_TypeConfusionRejected(t *testing.T) {
	svc := newTestService(t, time.Hour, 2*time.Hour)

	access, _, err := svc.IssueAccessToken(7, "openid-7")
	require.NoError(t, err)
	refresh, _, err := svc.IssueRefreshToken(7, "openid-7")
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, errors.ErrTokenWrongType)

	_, err = svc.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, errors.ErrTokenWrongType)
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour, 2*time.Hour)

	refresh, expiresAt, err := svc.IssueRefreshToken(9, "openid-9")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestJWTService_GarbageInput(t *testing.T) {
	svc := newTestService(t, time.Hour, time.Hour)

	for _, input := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := svc.ValidateAccessToken(input)
		assert.ErrorIs(t, err, errors.ErrTokenMalformed, "input %q", input)
	}
}
