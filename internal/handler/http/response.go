package http

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uiineed/todo-service/internal/domain/errors"
)

// Business result codes, shared with the web client.
const (
	CodeSuccess        = 200
	CodeValidateFailed = 400
	CodeUnauthorized   = 401
	CodeTokenInvalid   = 402
	CodeTokenExpired   = 403

	CodeUserNotFound = 1001
	CodeUserDisabled = 1002

	CodeTodoNotFound     = 2001
	CodeCategoryNotFound = 2002
	CodeCategoryHasTodos = 2003

	CodeWeChatAuthFailed     = 3001
	CodeWeChatTokenFailed    = 3002
	CodeWeChatUserInfoFailed = 3003
	CodeWeChatCodeInvalid    = 3004

	CodeSystemError = 500
)

// ApiResult is the uniform response envelope.
type ApiResult struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Success writes a 200 with data.
func Success(c *gin.Context, data interface{}) {
	SuccessMessage(c, "ok", data)
}

// SuccessMessage writes a 200 with a custom message and data.
func SuccessMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ApiResult{
		Code:      CodeSuccess,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Fail writes an error envelope with the given HTTP status and business
// code.
func Fail(c *gin.Context, status, code int, message string) {
	c.JSON(status, ApiResult{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	})
}

// FailValidation writes a 400 for a malformed request body or parameter.
func FailValidation(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, CodeValidateFailed, message)
}

// FailError maps a domain error to its HTTP status and business code. The
// caller-facing message stays generic for auth failures; the specific kind
// is for logs only.
func FailError(c *gin.Context, err error) {
	var provider *errors.ProviderError
	switch {
	case stderrors.Is(err, errors.ErrStateInvalidOrConsumed):
		Fail(c, http.StatusBadRequest, CodeWeChatCodeInvalid, "authorization code or state is invalid or expired")
	case stderrors.Is(err, errors.ErrTokenExpired):
		Fail(c, http.StatusUnauthorized, CodeTokenExpired, "token has expired")
	case errors.IsTokenInvalid(err):
		Fail(c, http.StatusUnauthorized, CodeTokenInvalid, "invalid token")
	case stderrors.Is(err, errors.ErrUserNotFound):
		Fail(c, http.StatusNotFound, CodeUserNotFound, "user not found")
	case stderrors.Is(err, errors.ErrUserDisabled):
		Fail(c, http.StatusForbidden, CodeUserDisabled, "user is disabled")
	case stderrors.Is(err, errors.ErrTodoNotFound):
		Fail(c, http.StatusNotFound, CodeTodoNotFound, "todo not found")
	case stderrors.Is(err, errors.ErrCategoryNotFound):
		Fail(c, http.StatusNotFound, CodeCategoryNotFound, "category not found")
	case stderrors.Is(err, errors.ErrCategoryHasTodos):
		Fail(c, http.StatusConflict, CodeCategoryHasTodos, "category still contains todos")
	case stderrors.Is(err, errors.ErrInvalidRequest):
		FailValidation(c, err.Error())
	case stderrors.As(err, &provider):
		Fail(c, http.StatusBadGateway, CodeWeChatAuthFailed, "wechat authorization failed")
	default:
		Fail(c, http.StatusInternalServerError, CodeSystemError, "internal server error")
	}
}
