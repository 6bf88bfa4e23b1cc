package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/config"
	"github.com/uiineed/todo-service/internal/domain/errors"
)

func testWeChatConfig() config.WeChatConfig {
	return config.WeChatConfig{
		AppID:       "wx-test-appid",
		AppSecret:   "wx-test-secret",
		RedirectURI: "https://todo.example.com/api/v1/auth/wechat/callback",
		Scope:       "snsapi_login",
		Timeout:     2 * time.Second,
	}
}

func TestWeChatService_AuthorizeURL(t *testing.T) {
	svc := NewWeChatService(testWeChatConfig(), zap.NewNop())

	authURL := svc.AuthorizeURL("nonce-123")

	assert.True(t, strings.HasPrefix(authURL, "https://open.weixin.qq.com/connect/qrconnect?"))
	assert.Contains(t, authURL, "appid=wx-test-appid")
	assert.Contains(t, authURL, "state=nonce-123")
	assert.Contains(t, authURL, "scope=snsapi_login")
	assert.Contains(t, authURL, "response_type=code")
	assert.True(t, strings.HasSuffix(authURL, "#wechat_redirect"))

	// The redirect URI must be percent-encoded, never raw.
	assert.Contains(t, authURL, "redirect_uri="+url.QueryEscape("https://todo.example.com/api/v1/auth/wechat/callback"))
	assert.NotContains(t, authURL, "redirect_uri=https://")
}

func TestWeChatService_ExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sns/oauth2/access_token", r.URL.Path)
		require.Equal(t, "wx-test-appid", r.URL.Query().Get("appid"))
		require.Equal(t, "wx-test-secret", r.URL.Query().Get("secret"))
		require.Equal(t, "the-code", r.URL.Query().Get("code"))
		require.Equal(t, "authorization_code", r.URL.Query().Get("grant_type"))

		w.Write([]byte(`{
			"access_token": "provider-token",
			"expires_in": 7200,
			"refresh_token": "provider-refresh",
			"openid": "openid-abc",
			"scope": "snsapi_login",
			"unionid": "unionid-abc"
		}`))
	}))
	defer server.Close()

	svc := NewWeChatService(testWeChatConfig(), zap.NewNop(), WithAPIBaseURL(server.URL))

	token, err := svc.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "provider-token", token.AccessToken)
	assert.Equal(t, "openid-abc", token.OpenID)
	assert.Equal(t, "unionid-abc", token.UnionID)
}

func TestWeChatService_ExchangeCode_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WeChat reports failures in a 200 body.
		w.Write([]byte(`{"errcode": 40029, "errmsg": "invalid code"}`))
	}))
	defer server.Close()

	svc := NewWeChatService(testWeChatConfig(), zap.NewNop(), WithAPIBaseURL(server.URL))

	_, err := svc.ExchangeCode(context.Background(), "bad-code")
	require.Error(t, err)

	var provErr *errors.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, 40029, provErr.Code)
	assert.Equal(t, "invalid code", provErr.Message)
}

func TestWeChatService_FetchUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sns/userinfo", r.URL.Path)
		require.Equal(t, "provider-token", r.URL.Query().Get("access_token"))
		require.Equal(t, "openid-abc", r.URL.Query().Get("openid"))

		w.Write([]byte(`{
			"openid": "openid-abc",
			"nickname": "Ada",
			"sex": 2,
			"city": "London",
			"headimgurl": "https://thirdwx.qlogo.cn/avatar.png"
		}`))
	}))
	defer server.Close()

	svc := NewWeChatService(testWeChatConfig(), zap.NewNop(), WithAPIBaseURL(server.URL))

	info, err := svc.FetchUserInfo(context.Background(), "provider-token", "openid-abc")
	require.NoError(t, err)
	assert.Equal(t, "openid-abc", info.OpenID)
	assert.Equal(t, "Ada", info.Nickname)
	assert.Equal(t, "https://thirdwx.qlogo.cn/avatar.png", info.HeadImgURL)
}

func TestWeChatService_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	svc := NewWeChatService(testWeChatConfig(), zap.NewNop(), WithAPIBaseURL(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.ExchangeCode(ctx, "the-code")
	require.Error(t, err)
}
