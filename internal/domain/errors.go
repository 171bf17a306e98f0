package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// OTP verification failures are distinguished so the API can report
	// expiry, exhaustion and mismatch as separate error codes.
	ErrOTPExpired          = errors.New("otp expired")
	ErrOTPAttemptsExceeded = errors.New("otp attempts exceeded")
	ErrOTPMismatch         = errors.New("otp mismatch")
	ErrOTPUsed             = errors.New("otp already used")

	// ErrConfiguration marks a missing or misconfigured delivery provider
	// (SMS/email). Mapped to a 400 CONFIGURATION_ERROR, never a crash.
	ErrConfiguration = errors.New("configuration error")
)
