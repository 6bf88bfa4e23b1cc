package models

import "time"

// User statuses.
const (
	UserStatusDisabled = 0
	UserStatusActive   = 1
)

// Genders as reported by WeChat.
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

// User is a local identity created on first successful WeChat login.
// WeChatOpenID is immutable; the profile fields are overwritten from the
// fresh WeChat profile on every login.
type User struct {
	ID            int64      `json:"id"`
	WeChatOpenID  string     `json:"-"`
	WeChatUnionID string     `json:"-"`
	Nickname      string     `json:"nickname"`
	AvatarURL     string     `json:"avatarUrl"`
	Gender        int        `json:"gender"`
	Country       string     `json:"country"`
	Province      string     `json:"province"`
	City          string     `json:"city"`
	Language      string     `json:"language"`
	LastLoginTime *time.Time `json:"lastLoginTime,omitempty"`
	LoginCount    int        `json:"loginCount"`
	Status        int        `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// IsActive reports whether the user may log in and refresh tokens.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// UserInfo is the trimmed user view embedded in login responses.
type UserInfo struct {
	ID        int64  `json:"id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
	Language  string `json:"language"`
}

// Info returns the API view of the user.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:        u.ID,
		Nickname:  u.Nickname,
		AvatarURL: u.AvatarURL,
		Language:  u.Language,
	}
}
