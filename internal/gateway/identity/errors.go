package identity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVerification is the generic phone-verification failure.
var ErrVerification = errors.New("error when trying to verify phone number")

// Categorized provider failures, mapped from upstream error codes.
var (
	ErrBillingNotEnabled       = errors.New("phone auth billing is not enabled for this project")
	ErrInvalidAppCredential    = errors.New("app credential was rejected by the provider")
	ErrTooManyRequests         = errors.New("too many verification attempts, wait before retrying")
	ErrInvalidVerificationCode = errors.New("verification code is incorrect")
	ErrInvalidVerificationID   = errors.New("verification session expired, request a new code")
)

// RequestError carries upstream context for failed identity calls.
type RequestError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RequestError) Error() string {
	parts := []string{e.Unwrap().Error()}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if code := strings.TrimSpace(e.Code); code != "" {
		parts = append(parts, "code="+code)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// Unwrap maps the provider code to one of the categorized sentinels.
func (e *RequestError) Unwrap() error {
	switch normalizeCode(e.Code) {
	case "BILLING_NOT_ENABLED":
		return ErrBillingNotEnabled
	case "INVALID_APP_CREDENTIAL":
		return ErrInvalidAppCredential
	case "TOO_MANY_ATTEMPTS_TRY_LATER", "QUOTA_EXCEEDED":
		return ErrTooManyRequests
	case "INVALID_CODE", "INVALID_VERIFICATION_CODE":
		return ErrInvalidVerificationCode
	case "INVALID_SESSION_INFO", "SESSION_EXPIRED", "INVALID_VERIFICATION_ID":
		return ErrInvalidVerificationID
	default:
		return ErrVerification
	}
}

func normalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	// Some provider deployments prefix codes with "auth/" in lower case.
	code = strings.TrimPrefix(code, "AUTH/")
	return strings.ReplaceAll(strings.ReplaceAll(code, "-", "_"), " ", "_")
}
