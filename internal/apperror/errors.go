// Package apperror defines the closed set of expected failures raised by the
// account and token layers. Callers match on Kind, never on message text.
package apperror

import "errors"

// Kind classifies an expected, caller-recoverable failure.
type Kind uint8

const (
	Unknown Kind = iota
	EmailAlreadyExists
	InvalidCredentials
	UserNotFound
	UpdateFailed
	DeleteFailed
	InvalidToken
)

var kindText = map[Kind]string{
	Unknown:            "unknown error",
	EmailAlreadyExists: "email already exists",
	InvalidCredentials: "invalid email or password",
	UserNotFound:       "user not found",
	UpdateFailed:       "failed to update user",
	DeleteFailed:       "failed to delete user",
	InvalidToken:       "invalid token",
}

// String returns the human readable description of the kind.
func (k Kind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return kindText[Unknown]
}

// Error is a tagged error. Err optionally carries the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

// Sentinels for errors.Is matching. Two *Error values match when their kinds
// are equal, regardless of the wrapped cause.
var (
	ErrEmailAlreadyExists = &Error{Kind: EmailAlreadyExists}
	ErrInvalidCredentials = &Error{Kind: InvalidCredentials}
	ErrUserNotFound       = &Error{Kind: UserNotFound}
	ErrUpdateFailed       = &Error{Kind: UpdateFailed}
	ErrDeleteFailed       = &Error{Kind: DeleteFailed}
	ErrInvalidToken       = &Error{Kind: InvalidToken}
)

// New returns an Error of the given kind wrapping cause (which may be nil).
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}
