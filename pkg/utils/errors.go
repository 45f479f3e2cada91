package utils

import (
	"errors"
	"fmt"
)

// ResponseCode business response code
type ResponseCode int

// Response codes. 0 is success; 4xxx are caller errors, 5xxx server errors.
const (
	CodeSuccess       ResponseCode = 0
	CodeInvalidParam  ResponseCode = 4001
	CodeUnauthorized  ResponseCode = 4010
	CodeForbidden     ResponseCode = 4030
	CodeNotFound      ResponseCode = 4040
	CodeConflict      ResponseCode = 4090
	CodeInternalError ResponseCode = 5000
	CodeDatabaseError ResponseCode = 5001
)

// AppError application error structure
type AppError struct {
	Code    ResponseCode `json:"code"`
	Message string       `json:"message"`
	Err     error        `json:"-"`
}

// Error implement error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code: %d, message: %s, error: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
}

// Unwrap implement errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewError create new application error
func NewError(code ResponseCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError wrap an underlying error
func WrapError(err error, code ResponseCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Predefined errors
var (
	ErrInvalidParam = NewError(CodeInvalidParam, "invalid parameter")

	// Catalog related errors
	ErrGameNotFound = NewError(CodeNotFound, "game not found")

	// Rental related errors
	ErrRentalNotFound    = NewError(CodeNotFound, "rental not found")
	ErrGamesUnavailable  = NewError(CodeConflict, "one or more games are not available")
	ErrInvalidStatus     = NewError(CodeInvalidParam, "invalid rental status")

	// Auth related errors
	ErrUnauthorized       = NewError(CodeUnauthorized, "unauthorized")
	ErrInvalidCredentials = NewError(CodeUnauthorized, "invalid credentials")
	ErrSetupRequired      = NewError(CodeInvalidParam, "initial setup required")
	ErrAlreadySetup       = NewError(CodeInvalidParam, "admin account already exists")

	// System errors
	ErrInternalError = NewError(CodeInternalError, "internal server error")
	ErrDatabaseError = NewError(CodeDatabaseError, "database error")
)

// IsAppError check if it's an application error
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetErrorCode get error code
func GetErrorCode(err error) ResponseCode {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code
	}
	return CodeInternalError
}

// GetErrorMessage get error message
func GetErrorMessage(err error) string {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
