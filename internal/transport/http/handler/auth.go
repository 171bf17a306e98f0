package handler

import (
	"encoding/json"
	"net/http"

	"github.com/carmarket-api/internal/application/auth"
	"github.com/carmarket-api/internal/pkg/validate"
	"github.com/carmarket-api/internal/transport/http/middleware"
)

// AuthHandler handles OTP auth, session and admin login endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.RequestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	result, err := h.svc.RequestCode(r.Context(), req, r.RemoteAddr, r.UserAgent())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	result, err := h.svc.VerifyCode(r.Context(), req, r.RemoteAddr)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"bearer":        result.Bearer,
		"refresh_token": result.RefreshToken,
		"session":       result.Session,
		"is_new_user":   result.IsNewUser,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	bearer, refreshToken, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{
		"bearer":        bearer,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.SessionID == "" {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	if err := h.svc.Logout(r.Context(), claims.SessionID); err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	result, err := h.svc.AdminLogin(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"bearer": result.Bearer,
		"admin":  result.Admin,
	})
}
