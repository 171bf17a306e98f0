package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carmarket-api/internal/domain"
)

// Envelope is the generic response wrapper. Every endpoint returns either
// data with success=true or an ErrorBody with success=false, never both.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, Envelope{Success: false, Error: &ErrorBody{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// httpError maps a service error onto the HTTP status and error code the
// wrapped sentinel dictates. Unrecognized errors become a 500 without the
// underlying message, so infrastructure details never leak to clients.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOTPExpired):
		writeError(w, http.StatusBadRequest, "OTP_EXPIRED", err.Error())
	case errors.Is(err, domain.ErrOTPAttemptsExceeded):
		writeError(w, http.StatusBadRequest, "OTP_ATTEMPTS_EXCEEDED", err.Error())
	case errors.Is(err, domain.ErrOTPMismatch):
		writeError(w, http.StatusBadRequest, "OTP_MISMATCH", err.Error())
	case errors.Is(err, domain.ErrOTPUsed):
		writeError(w, http.StatusBadRequest, "OTP_ALREADY_USED", err.Error())
	case errors.Is(err, domain.ErrConfiguration):
		writeError(w, http.StatusBadRequest, "CONFIGURATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "PERMISSION_DENIED", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// validationError reports a go-playground/validator failure or a malformed body.
func validationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}
