package models

// WeChatAccessToken is the response of WeChat's oauth2/access_token
// endpoint after a successful code exchange.
type WeChatAccessToken struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	OpenID       string `json:"openid"`
	Scope        string `json:"scope"`
	UnionID      string `json:"unionid"`
}

// WeChatUserInfo is the subject profile returned by WeChat's sns/userinfo
// endpoint.
type WeChatUserInfo struct {
	OpenID     string `json:"openid"`
	UnionID    string `json:"unionid"`
	Nickname   string `json:"nickname"`
	HeadImgURL string `json:"headimgurl"`
	Sex        int    `json:"sex"`
	Country    string `json:"country"`
	Province   string `json:"province"`
	City       string `json:"city"`
	Language   string `json:"language"`
}
