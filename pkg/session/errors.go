package session

// Service error codes issued by the Memo AI auth endpoints.
const (
	CodeAccountLocked      = "AUTH_ACCOUNT_LOCKED"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeSessionExpired     = "AUTH_SESSION_EXPIRED"
	CodeInvalidToken       = "AUTH_INVALID_TOKEN"
)

// User-facing messages for login failures. Specific codes map to specific
// messages; anything else passes the server message through or falls back
// to the generic one.
const (
	MessageAccountLocked      = "Account temporarily locked due to multiple failed attempts. Please try again later."
	MessageInvalidCredentials = "Invalid username or password."
	MessageLoginFailed        = "Login failed. Please try again."
)

// AuthError is a login failure with a user-facing message and, when the
// server supplied one, the service error code.
type AuthError struct {
	// Message is safe to render inline under a login form.
	Message string

	// Code is the service error code, if known.
	Code string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return e.Message
}

// loginFailure maps a failed login result to an AuthError. Precedence:
// lockout code, invalid-credentials code, server-supplied message, generic
// fallback.
func loginFailure(code, serverMessage string) *AuthError {
	switch code {
	case CodeAccountLocked:
		return &AuthError{Message: MessageAccountLocked, Code: code}
	case CodeInvalidCredentials:
		return &AuthError{Message: MessageInvalidCredentials, Code: code}
	}
	if serverMessage != "" {
		return &AuthError{Message: serverMessage, Code: code}
	}
	return &AuthError{Message: MessageLoginFailed, Code: code}
}
