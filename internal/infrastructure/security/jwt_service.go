package security

import (
	"crypto/rand"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/config"
	"github.com/uiineed/todo-service/internal/domain/errors"
	"github.com/uiineed/todo-service/internal/domain/models"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// MinSecretLength is the minimum accepted signing secret length. Anything
// shorter is a startup error, not a runtime-recoverable one.
const MinSecretLength = 64

// Claims is the signed claim set inside both access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	OpenID    string `json:"openId"`
	TokenType string `json:"type"`
}

// UserID parses the subject claim into the local user id.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q is not a user id", errors.ErrTokenMalformed, c.Subject)
	}
	return id, nil
}

// Principal derives the request principal from the claims.
func (c *Claims) Principal() (models.Principal, error) {
	userID, err := c.UserID()
	if err != nil {
		return models.Principal{}, err
	}
	return models.Principal{UserID: userID, OpenID: c.OpenID}, nil
}

// JWTService issues and validates HMAC-SHA512 signed tokens. The signing key
// is fixed at construction and never mutated; validation is purely
// computational and safe for concurrent use.
type JWTService struct {
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	header          string
	prefix          string
}

// NewJWTService builds the codec from configuration. An absent secret gets
// replaced by a freshly generated random one with a loud warning (issued
// tokens then do not survive a restart); a secret below MinSecretLength is
// refused outright.
func NewJWTService(cfg config.JWTConfig, logger *zap.Logger) (*JWTService, error) {
	secret := cfg.Secret
	if secret == "" {
		generated, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing secret: %w", err)
		}
		secret = generated
		logger.Warn("jwt secret is not configured, generated a random one; " +
			"set TODO_JWT_SECRET in production or all tokens are invalidated on restart")
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret is too short: %d chars, need at least %d", len(secret), MinSecretLength)
	}

	header := cfg.Header
	if header == "" {
		header = "Authorization"
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "Bearer"
	}

	return &JWTService{
		secret:          []byte(secret),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		header:          header,
		prefix:          prefix,
	}, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *JWTService) AccessTokenTTL() time.Duration {
	return s.accessTokenTTL
}

// Header returns the request header tokens are read from.
func (s *JWTService) Header() string {
	return s.header
}

// Prefix returns the credential scheme prefix, normally "Bearer".
func (s *JWTService) Prefix() string {
	return s.prefix
}

// IssueAccessToken signs a new access token for the given identity and
// returns it with its expiry time.
func (s *JWTService) IssueAccessToken(userID int64, openID string) (string, time.Time, error) {
	return s.issue(userID, openID, TokenTypeAccess, s.accessTokenTTL)
}

// IssueRefreshToken signs a new refresh token for the given identity.
func (s *JWTService) IssueRefreshToken(userID int64, openID string) (string, time.Time, error) {
	return s.issue(userID, openID, TokenTypeRefresh, s.refreshTokenTTL)
}

func (s *JWTService) issue(userID int64, openID, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		OpenID:    openID,
		TokenType: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken parses and verifies an access token, rejecting
// refresh tokens presented in its place.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken parses and verifies a refresh token specifically.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeRefresh)
}

func (s *JWTService) validate(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
	)
	if err != nil {
		return nil, mapParseError(err)
	}
	if !token.Valid {
		return nil, errors.ErrTokenMalformed
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("%w: expected %s, got %s", errors.ErrTokenWrongType, wantType, claims.TokenType)
	}
	return claims, nil
}

// keyFunc returns the shared HMAC secret; the jwt library does a
// constant-time signature comparison with it on verify.
func (s *JWTService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secret, nil
}

// mapParseError folds the jwt library's error set into the domain taxonomy.
// Expiry is checked after the signature by the library, so an expired but
// genuine token surfaces as expired, never as tampered.
func mapParseError(err error) error {
	switch {
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return errors.ErrTokenExpired
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return errors.ErrTokenSignatureInvalid
	case stderrors.Is(err, jwt.ErrTokenMalformed):
		return errors.ErrTokenMalformed
	default:
		return fmt.Errorf("%w: %v", errors.ErrTokenMalformed, err)
	}
}

func generateSecret() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
