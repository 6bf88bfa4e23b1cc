package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/handler/http/middleware"
	"github.com/uiineed/todo-service/internal/service"
)

// AuthHandler exposes the WeChat login handshake and token lifecycle.
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// GetLoginQrCode handles GET /auth/qrcode: issues a state nonce and returns
// the WeChat authorize URL plus its QR rendering.
func (h *AuthHandler) GetLoginQrCode(c *gin.Context) {
	resp, err := h.auth.StartLogin(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to start login", zap.Error(err))
		FailError(c, err)
		return
	}
	Success(c, resp)
}

// WeChatCallback handles GET /auth/wechat/callback: completes the login
// handshake and returns the signed token pair.
func (h *AuthHandler) WeChatCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		FailValidation(c, "code and state are required")
		return
	}

	resp, err := h.auth.CompleteLogin(c.Request.Context(), code, state)
	if err != nil {
		h.logger.Warn("wechat login failed", zap.Error(err))
		FailError(c, err)
		return
	}
	SuccessMessage(c, "login successful", resp)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken" binding:"required"`
}

// RefreshToken handles POST /auth/refresh: validates the refresh token and
// rotates the pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBind(&req); err != nil {
		FailValidation(c, "refreshToken is required")
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Warn("token refresh rejected", zap.Error(err))
		FailError(c, err)
		return
	}
	SuccessMessage(c, "token refreshed", pair)
}

// Logout handles POST /auth/logout. Tokens are stateless, so this is an
// acknowledgment only.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context())
	SuccessMessage(c, "logged out", nil)
}

// Me handles GET /auth/me on the protected group.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeUnauthorized, "unauthenticated")
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), principal)
	if err != nil {
		FailError(c, err)
		return
	}
	Success(c, user.Info())
}
