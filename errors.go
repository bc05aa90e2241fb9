package devjwt

import "fmt"

// ErrorCode represents minter and verifier error categories.
type ErrorCode string

const (
	ErrCodeInvalidConfig    ErrorCode = "invalid_config"
	ErrCodeSigningFailed    ErrorCode = "signing_failed"
	ErrCodeInvalidToken     ErrorCode = "invalid_token"
	ErrCodeInvalidSignature ErrorCode = "invalid_signature"
	ErrCodeExpired          ErrorCode = "token_expired"
	ErrCodeNotYetValid      ErrorCode = "token_not_yet_valid"
	ErrCodeInvalidIssuer    ErrorCode = "invalid_issuer"
	ErrCodeInvalidAudience  ErrorCode = "invalid_audience"
)

var errorMessages = map[ErrorCode]string{
	ErrCodeInvalidConfig:    "Invalid configuration",
	ErrCodeSigningFailed:    "Signing failed",
	ErrCodeInvalidToken:     "Invalid token",
	ErrCodeInvalidSignature: "Invalid signature",
	ErrCodeExpired:          "Token expired",
	ErrCodeNotYetValid:      "Token not yet valid",
	ErrCodeInvalidIssuer:    "Invalid issuer",
	ErrCodeInvalidAudience:  "Invalid audience",
}

// Error wraps minter and verifier errors with a stable code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := e.Message
	if base == "" {
		base = string(e.Code)
	}
	if e.Err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, err error) error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Err: err}
}
