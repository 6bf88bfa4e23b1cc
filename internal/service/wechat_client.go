package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/config"
	"github.com/uiineed/todo-service/internal/domain/errors"
	"github.com/uiineed/todo-service/internal/domain/models"
)

// WeChat open-platform endpoints.
const (
	wechatAuthURL        = "https://open.weixin.qq.com/connect/qrconnect"
	wechatAccessTokenURL = "https://api.weixin.qq.com/sns/oauth2/access_token"
	wechatUserInfoURL    = "https://api.weixin.qq.com/sns/userinfo"
)

// WeChatClient talks to the WeChat open platform: authorize URL
// construction, code-for-token exchange and profile fetch.
type WeChatClient interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*models.WeChatAccessToken, error)
	FetchUserInfo(ctx context.Context, accessToken, openID string) (*models.WeChatUserInfo, error)
}

// WeChatService is the production WeChatClient. It performs outbound HTTPS
// calls only and holds no mutable state.
//
// WeChat's token endpoint is not RFC 6749 compliant (GET with appid/secret
// query parameters, errors reported as errcode/errmsg in a 200 body), so the
// calls are made directly instead of through an oauth2 library.
type WeChatService struct {
	cfg     config.WeChatConfig
	client  *http.Client
	logger  *zap.Logger
	baseURL string
}

// WeChatOption customizes a WeChatService.
type WeChatOption func(*WeChatService)

// WithAPIBaseURL redirects API calls to an alternate host, used in tests.
func WithAPIBaseURL(base string) WeChatOption {
	return func(s *WeChatService) { s.baseURL = base }
}

// NewWeChatService creates the WeChat client with a bounded request timeout.
func NewWeChatService(cfg config.WeChatConfig, logger *zap.Logger, opts ...WeChatOption) *WeChatService {
	s := &WeChatService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthorizeURL formats the qrconnect authorize URL with the caller-supplied
// anti-forgery state. The redirect URI is percent-encoded; the trailing
// fragment is required by WeChat.
func (s *WeChatService) AuthorizeURL(state string) string {
	return fmt.Sprintf("%s?appid=%s&redirect_uri=%s&response_type=code&scope=%s&state=%s#wechat_redirect",
		wechatAuthURL,
		s.cfg.AppID,
		url.QueryEscape(s.cfg.RedirectURI),
		s.cfg.Scope,
		state,
	)
}

// ExchangeCode trades an authorization code for a WeChat access token.
func (s *WeChatService) ExchangeCode(ctx context.Context, code string) (*models.WeChatAccessToken, error) {
	reqURL := fmt.Sprintf("%s?appid=%s&secret=%s&code=%s&grant_type=authorization_code",
		s.endpoint(wechatAccessTokenURL), s.cfg.AppID, s.cfg.AppSecret, url.QueryEscape(code))

	var token models.WeChatAccessToken
	if err := s.getJSON(ctx, reqURL, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// FetchUserInfo fetches the subject's profile with a provider access token.
func (s *WeChatService) FetchUserInfo(ctx context.Context, accessToken, openID string) (*models.WeChatUserInfo, error) {
	reqURL := fmt.Sprintf("%s?access_token=%s&openid=%s",
		s.endpoint(wechatUserInfoURL), url.QueryEscape(accessToken), url.QueryEscape(openID))

	var info models.WeChatUserInfo
	if err := s.getJSON(ctx, reqURL, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// getJSON performs a GET and decodes the body into out, first surfacing any
// provider-level errcode/errmsg pair as a ProviderError.
func (s *WeChatService) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build wechat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("wechat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read wechat response: %w", err)
	}

	var apiErr struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.ErrCode != 0 {
		s.logger.Warn("wechat api returned an error",
			zap.Int("errcode", apiErr.ErrCode),
			zap.String("errmsg", apiErr.ErrMsg),
		)
		return &errors.ProviderError{Code: apiErr.ErrCode, Message: apiErr.ErrMsg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode wechat response: %w", err)
	}
	return nil
}

// endpoint rewrites a production URL onto the test base URL when one is set.
func (s *WeChatService) endpoint(productionURL string) string {
	if s.baseURL == "" {
		return productionURL
	}
	u, err := url.Parse(productionURL)
	if err != nil {
		return productionURL
	}
	return s.baseURL + u.Path
}
