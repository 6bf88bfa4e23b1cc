// Package errors defines the domain error taxonomy. Services and
// repositories return these sentinels so the HTTP layer can map failures to
// business codes without inspecting error strings.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Token validation failures. Expiry is deliberately distinct from the
	// other invalid-token cases so clients can tell "refresh me" apart from
	// "log in again".
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenWrongType        = errors.New("token type mismatch")

	// ErrStateInvalidOrConsumed covers every way a login state nonce can be
	// unusable: unknown, expired, or already consumed. Callers cannot
	// distinguish the cases, which keeps replayed callbacks unambiguous.
	ErrStateInvalidOrConsumed = errors.New("login state is invalid or already consumed")

	ErrUserNotFound     = errors.New("user not found")
	ErrUserDisabled     = errors.New("user account is disabled")
	ErrTodoNotFound     = errors.New("todo not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryHasTodos = errors.New("category still has todos")

	ErrInvalidRequest = errors.New("invalid request")
)

// ProviderError is a business-level failure reported by the WeChat API in a
// 200 response body.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("wechat api error %d: %s", e.Code, e.Message)
}

// StorageError wraps a database failure with the repository operation that
// produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err, passing nil through unchanged.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsTokenInvalid reports whether err is any token failure other than
// expiry.
func IsTokenInvalid(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenSignatureInvalid) ||
		errors.Is(err, ErrTokenWrongType)
}

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTodoNotFound) ||
		errors.Is(err, ErrCategoryNotFound)
}
