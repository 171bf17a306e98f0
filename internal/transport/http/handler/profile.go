package handler

import (
	"encoding/json"
	"net/http"

	"github.com/carmarket-api/internal/application/auth"
	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/pkg/validate"
	"github.com/carmarket-api/internal/transport/http/middleware"
)

// ProfileHandler handles the authenticated user's own profile.
type ProfileHandler struct {
	svc auth.Service
}

func NewProfileHandler(svc auth.Service) *ProfileHandler { return &ProfileHandler{svc: svc} }

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	u, err := h.svc.Me(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	if err := h.svc.DeleteAccount(r.Context(), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "account deleted"})
}
