package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared between the gateway and the identity authority. Bus
// replies carry these codes so a failure keeps its meaning across the
// process boundary.
const (
	CodeDuplicateIdentity  = "DUPLICATE_IDENTITY"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeRefreshInvalid     = "REFRESH_INVALID"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeTimeout            = "TIMEOUT"
	CodeInternal           = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewDuplicateIdentity reports a registration conflict on an email already in use.
func NewDuplicateIdentity() error {
	return NewDomainError(CodeDuplicateIdentity, "an account already exists with this email", http.StatusConflict, nil)
}

// NewInvalidCredentials is returned for both an unknown email and a wrong
// secret. The message must stay identical for the two cases so callers
// cannot enumerate accounts.
func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid credentials", http.StatusUnauthorized, nil)
}

// NewAccountDisabled reports a suspended account.
func NewAccountDisabled() error {
	return NewDomainError(CodeAccountDisabled, "this account has been disabled", http.StatusUnauthorized, nil)
}

// NewRefreshInvalid covers bad signature, expiry, unknown subject, revoked
// session and reuse of a superseded refresh token. One code for all of them.
func NewRefreshInvalid() error {
	return NewDomainError(CodeRefreshInvalid, "refresh token invalid or expired", http.StatusUnauthorized, nil)
}

// NewTokenInvalid reports an access token rejection without saying why.
func NewTokenInvalid() error {
	return NewDomainError(CodeTokenInvalid, "token invalid or expired", http.StatusUnauthorized, nil)
}

func NewUnauthenticated(message string) error {
	return NewDomainError(CodeUnauthenticated, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

// NewTimeout reports an expired cross-process call. Callers treat it exactly
// like an explicit rejection.
func NewTimeout(subject string) error {
	return NewDomainError(CodeTimeout, fmt.Sprintf("call to %s timed out", subject), http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

var statusByCode = map[string]int{
	CodeDuplicateIdentity:  http.StatusConflict,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeAccountDisabled:    http.StatusUnauthorized,
	CodeRefreshInvalid:     http.StatusUnauthorized,
	CodeTokenInvalid:       http.StatusUnauthorized,
	CodeUnauthenticated:    http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeValidationFailed:   http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeTimeout:            http.StatusUnauthorized,
}

// FromCode rebuilds a DomainError from a code and message carried over the
// bus. Unknown codes collapse to internal errors.
func FromCode(code, message string) *DomainError {
	status, ok := statusByCode[code]
	if !ok {
		return ToDomainError(NewInternalError(errors.New(message)))
	}
	return NewDomainError(code, message, status, nil)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
