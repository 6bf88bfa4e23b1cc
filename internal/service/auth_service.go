package service

import (
	"context"
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/domain/errors"
	"github.com/uiineed/todo-service/internal/domain/models"
	"github.com/uiineed/todo-service/internal/domain/repository"
	"github.com/uiineed/todo-service/internal/infrastructure/security"
)

const qrCodeSize = 300

// AuthService orchestrates the WeChat login handshake and the signed token
// lifecycle: QR issuance, callback completion, refresh rotation and logout.
type AuthService struct {
	wechat WeChatClient
	users  *UserService
	states repository.StateStore
	tokens *security.JWTService
	logger *zap.Logger
}

// NewAuthService wires the login orchestrator.
func NewAuthService(
	wechat WeChatClient,
	users *UserService,
	states repository.StateStore,
	tokens *security.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		wechat: wechat,
		users:  users,
		states: states,
		tokens: tokens,
		logger: logger,
	}
}

// StartLogin issues a single-use state nonce, builds the WeChat authorize
// URL bound to it and renders the URL as a QR code for scanning.
func (s *AuthService) StartLogin(ctx context.Context) (*models.QrCodeResponse, error) {
	state, err := s.states.Issue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to issue login state: %w", err)
	}

	authURL := s.wechat.AuthorizeURL(state)

	png, err := qrcode.Encode(authURL, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render login qr code: %w", err)
	}

	return &models.QrCodeResponse{
		QrCode:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		State:   state,
		AuthURL: authURL,
		Message: "scan the qr code with wechat to log in",
	}, nil
}

// CompleteLogin handles the provider callback. The state nonce is consumed
// first and the flow fails closed on mismatch, replay or expiry; then the
// code is exchanged, the profile fetched, the local identity upserted and a
// fresh token pair issued.
func (s *AuthService) CompleteLogin(ctx context.Context, code, state string) (*models.LoginResponse, error) {
	if err := s.states.Consume(ctx, state); err != nil {
		return nil, err
	}

	token, err := s.wechat.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := s.wechat.FetchUserInfo(ctx, token.AccessToken, token.OpenID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindOrCreateByOpenID(ctx, info)
	if err != nil {
		return nil, err
	}
	if err := s.users.RecordLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(user.ID, user.WeChatOpenID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("wechat login completed", zap.Int64("user_id", user.ID))
	return &models.LoginResponse{TokenPair: *pair, User: user.Info()}, nil
}

// Refresh validates a refresh token specifically, re-checks that the
// identity is still active and rotates the pair: the caller gets a new
// refresh token along with the new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, errors.ErrUserDisabled
	}

	return s.issuePair(user.ID, user.WeChatOpenID)
}

// Logout acknowledges the client's logout. Tokens are stateless and carry no
// revocation id, so there is nothing to invalidate server-side.
func (s *AuthService) Logout(_ context.Context) {}

// CurrentUser loads the full user record behind a request principal.
func (s *AuthService) CurrentUser(ctx context.Context, principal models.Principal) (*models.User, error) {
	return s.users.FindByID(ctx, principal.UserID)
}

func (s *AuthService) issuePair(userID int64, openID string) (*models.TokenPair, error) {
	access, expiresAt, err := s.tokens.IssueAccessToken(userID, openID)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.IssueRefreshToken(userID, openID)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		Token:        access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
		ExpiresIn:    expiresAt.UnixMilli(),
	}, nil
}
