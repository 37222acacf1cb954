package models

import "errors"

// ErrorKind classifies a failure so the HTTP boundary can pick a status code
// without inspecting message text.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindWeakPassword       ErrorKind = "weak_password"
	KindDuplicateUsername  ErrorKind = "duplicate_username"
	KindNotFound           ErrorKind = "not_found"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindStorage            ErrorKind = "storage"
)

// AppError is a structured rejection: a kind plus a message that is safe to
// return to the client. Storage errors additionally wrap the driver error,
// which is logged server-side and never serialized.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func NewWeakPasswordError() *AppError {
	return &AppError{
		Kind:    KindWeakPassword,
		Message: "Password must be at least 8 characters long and contain at least one letter, one digit, and one special character.",
	}
}

func NewDuplicateUsernameError() *AppError {
	return &AppError{Kind: KindDuplicateUsername, Message: "Username already exists."}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{Kind: KindInvalidCredentials, Message: "Wrong password."}
}

func NewUnauthorizedError(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg}
}

func NewStorageError(err error) *AppError {
	return &AppError{Kind: KindStorage, Message: "storage failure", Err: err}
}

// AsAppError unwraps err into an *AppError if one is anywhere in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
