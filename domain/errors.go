package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Services return them wrapped in *Error so callers can match
// with errors.Is while clients still get a specific message.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateResource = errors.New("duplicate resource")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUserInUse         = errors.New("user in use")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("access denied")
)

// Error is a business-rule failure with a client-facing message
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFoundf builds an ErrNotFound failure
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// DuplicateResourcef builds an ErrDuplicateResource failure
func DuplicateResourcef(format string, args ...any) error {
	return &Error{Kind: ErrDuplicateResource, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgumentf builds an ErrInvalidArgument failure
func InvalidArgumentf(format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// UserInUsef builds an ErrUserInUse failure
func UserInUsef(format string, args ...any) error {
	return &Error{Kind: ErrUserInUse, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing text of err: the *Error message when
// there is one, the error text otherwise.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
