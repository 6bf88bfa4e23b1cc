package models

import "time"

// TokenPair is the signed credential pair issued at login and refresh.
// Both strings are opaque to clients.
type TokenPair struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"-"`
	// ExpiresIn is the access token expiry as unix milliseconds, kept for
	// compatibility with the web client.
	ExpiresIn int64 `json:"expiresIn"`
}

// Principal is the verified caller identity derived from a valid access
// token. It lives for one request and is never persisted.
type Principal struct {
	UserID int64
	OpenID string
}

// LoginResponse is the body returned by the WeChat callback endpoint.
type LoginResponse struct {
	TokenPair
	User UserInfo `json:"user"`
}

// QrCodeResponse is the body returned by the login QR code endpoint.
type QrCodeResponse struct {
	QrCode  string `json:"qrCode"`
	State   string `json:"state"`
	AuthURL string `json:"authUrl"`
	Message string `json:"message"`
}
