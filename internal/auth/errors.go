package auth

import "errors"

// ValidationError covers empty fields, the reserved teacher username and
// weak passwords. Surfaced inline to the submitting form; never fatal.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthError family.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrUsernameTaken     = errors.New("username already taken")
)

var (
	ErrFieldsRequired   = &ValidationError{Msg: "all fields required"}
	ErrUsernameReserved = &ValidationError{Msg: "username reserved"}
	ErrWeakPassword     = &ValidationError{Msg: "password min 4 characters"}
)
