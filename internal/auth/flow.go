// Package auth drives the phone number OTP sign-in flow.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/khanape/khana-cli/internal/gateway/identity"
)

// Step names the stage the sign-in flow is in.
type Step string

const (
	// StepPhone collects the phone number.
	StepPhone Step = "phone"
	// StepOTP collects the one-time code for a started verification.
	StepOTP Step = "otp"
)

const (
	countryPrefix = "+91"
	otpLength     = 6
)

var (
	// ErrInvalidPhone rejects numbers that are not 10 digits starting 6-9.
	ErrInvalidPhone = errors.New("please enter a valid 10-digit mobile number")
	// ErrInvalidOTP rejects codes that are not exactly 6 digits.
	ErrInvalidOTP = errors.New("please enter the 6-digit code")
	// ErrNoVerification is returned when VerifyOTP runs before SendOTP.
	ErrNoVerification = errors.New("no verification in progress")

	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	digitPattern = regexp.MustCompile(`\D`)
)

// Flow is the two-step phone sign-in state machine. It holds at most
// one pending verification; while in StepOTP the handle is never nil.
type Flow struct {
	provider identity.Provider

	step   Step
	phone  string
	handle identity.Handle
}

// NewFlow creates a Flow at the phone entry step.
func NewFlow(provider identity.Provider) *Flow {
	return &Flow{provider: provider, step: StepPhone}
}

// ResumeFlow rebuilds a Flow at the OTP step around a verification
// started earlier. The handle must not be nil.
func ResumeFlow(provider identity.Provider, phone string, handle identity.Handle) *Flow {
	if handle == nil {
		return NewFlow(provider)
	}
	return &Flow{provider: provider, step: StepOTP, phone: phone, handle: handle}
}

// Handle exposes the pending verification so callers can persist it
// between invocations. Nil outside the OTP step.
func (f *Flow) Handle() identity.Handle {
	return f.handle
}

// Step returns the current flow step.
func (f *Flow) Step() Step {
	return f.step
}

// Phone returns the number the pending verification was sent to.
func (f *Flow) Phone() string {
	return f.phone
}

// SendOTP validates the phone number and asks the provider to send a
// code. Invalid numbers are rejected before any provider call. On
// provider failure the flow stays at the phone step.
func (f *Flow) SendOTP(ctx context.Context, phone string) error {
	digits := digitPattern.ReplaceAllString(phone, "")
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	if !phonePattern.MatchString(digits) {
		return ErrInvalidPhone
	}

	handle, err := f.provider.StartVerification(ctx, countryPrefix+digits)
	if err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	f.step = StepOTP
	f.phone = digits
	f.handle = handle
	return nil
}

// VerifyOTP confirms the code against the pending verification. On
// success the flow resets to the phone step and the session is
// returned. On failure the flow stays at the OTP step so the user can
// retry or go back.
func (f *Flow) VerifyOTP(ctx context.Context, code string) (identity.Session, error) {
	if f.step != StepOTP || f.handle == nil {
		return identity.Session{}, ErrNoVerification
	}
	trimmed := strings.TrimSpace(code)
	if len(trimmed) != otpLength || digitPattern.MatchString(trimmed) {
		return identity.Session{}, ErrInvalidOTP
	}

	session, err := f.handle.Confirm(ctx, trimmed)
	if err != nil {
		return identity.Session{}, fmt.Errorf("verify code: %w", err)
	}
	if session.Phone == "" {
		session.Phone = countryPrefix + f.phone
	}
	f.reset()
	return session, nil
}

// UseAnotherNumber abandons the pending verification and returns to
// the phone entry step.
func (f *Flow) UseAnotherNumber() {
	f.reset()
}

func (f *Flow) reset() {
	f.step = StepPhone
	f.phone = ""
	f.handle = nil
}
