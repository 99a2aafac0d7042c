package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Authentication-specific error types
const (
	ErrorTypeInvalidCredentials     ErrorType = "invalid_credentials"
	ErrorTypeWrongProvider          ErrorType = "wrong_provider"
	ErrorTypeAlreadyRegistered      ErrorType = "already_registered"
	ErrorTypeTokenExpired           ErrorType = "token_expired"
	ErrorTypeTokenMalformed         ErrorType = "token_malformed"
	ErrorTypeAuthenticationRequired ErrorType = "authentication_required"
	ErrorTypeIdentityExchange       ErrorType = "identity_exchange_failed"
	ErrorTypeProviderRejected       ErrorType = "provider_rejected"
)

// AuthError represents authentication-specific errors with enhanced security context
type AuthError struct {
	*AppError
	// ShouldLog determines if this error should be logged.
	// Some auth errors (like invalid credentials) are expected and don't need
	// error-level logging.
	ShouldLog bool
	// SecurityEvent indicates if this should be tracked as a security event
	SecurityEvent bool
	// Provider carries the owning provider for wrong_provider errors, so
	// clients can redirect the user to the correct login method.
	Provider string
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AuthError) Unwrap() error {
	return e.AppError
}

// NewInvalidCredentialsError creates an error for invalid login credentials.
// The message is identical whether the email is unknown or the password is
// wrong, to avoid user enumeration.
func NewInvalidCredentialsError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidCredentials,
			Message: "Invalid email or password",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: true, // track for brute force detection
	}
}

// NewWrongProviderError creates an error for password login attempts against a
// federated account. Unlike invalid credentials this is deliberately
// informative: the client should redirect to the named provider.
func NewWrongProviderError(provider string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeWrongProvider,
			Message: fmt.Sprintf("This account was created with %s. Please login via %s.", provider, provider),
			Code:    http.StatusBadRequest,
		},
		ShouldLog:     false,
		SecurityEvent: false,
		Provider:      provider,
	}
}

// NewAlreadyRegisteredError creates an error for email or provider-identity collisions
func NewAlreadyRegisteredError(details ...string) *AuthError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeAlreadyRegistered,
			Message: "Email is already registered",
			Code:    http.StatusBadRequest,
			Details: detail,
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewTokenExpiredError creates an error for expired bearer tokens.
// Recoverable by re-login, so it is not a security event.
func NewTokenExpiredError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenExpired,
			Message: "Token has expired",
			Code:    http.StatusUnauthorized,
			Details: "Please login again",
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewTokenMalformedError creates an error for structurally invalid or forged
// tokens. May indicate tampering; should not be retried silently.
func NewTokenMalformedError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenMalformed,
			Message: "Invalid token",
			Code:    http.StatusUnauthorized,
			Details: "Token is malformed or its signature does not verify",
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewAuthenticationRequiredError creates an error for requests that presented
// no credential at all.
func NewAuthenticationRequiredError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeAuthenticationRequired,
			Message: "Authentication required",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewIdentityExchangeError creates an error for failed provider token/profile exchanges
func NewIdentityExchangeError(provider string, details ...string) *AuthError {
	detail := "code exchange or profile fetch failed"
	if len(details) > 0 {
		detail = details[0]
	}
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeIdentityExchange,
			Message: fmt.Sprintf("Authentication with %s failed", provider),
			Code:    http.StatusBadGateway,
			Details: detail,
		},
		ShouldLog:     true, // external service issues should be logged
		SecurityEvent: false,
	}
}

// NewProviderRejectedError creates an error for callbacks that carry a
// provider-side denial or error instead of an authorization code.
func NewProviderRejectedError(provider, code string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeProviderRejected,
			Message: fmt.Sprintf("%s rejected the authorization request", provider),
			Code:    http.StatusBadGateway,
			Details: code,
		},
		ShouldLog:     true,
		SecurityEvent: false,
	}
}

// IsAuthError checks if the error is an AuthError (supports wrapped errors via errors.As)
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stderrors.As(err, &authErr)
}

// GetAuthError extracts AuthError from error chain (supports wrapped errors via errors.As)
func GetAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return nil
}

// ShouldLogAuthError returns true if the authentication error should be logged.
// Keeps expected auth failures out of the error logs.
func ShouldLogAuthError(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.ShouldLog
	}
	return true
}

// IsSecurityEvent returns true if the error should be tracked as a security event
func IsSecurityEvent(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.SecurityEvent
	}
	return false
}
