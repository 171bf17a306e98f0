package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carmarket-api/internal/application/inquiry"
	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/pkg/validate"
	"github.com/carmarket-api/internal/transport/http/middleware"
)

// InquiryHandler handles buyer inquiries and the seller-side inquiry inbox.
type InquiryHandler struct {
	svc inquiry.Service
}

func NewInquiryHandler(svc inquiry.Service) *InquiryHandler { return &InquiryHandler{svc: svc} }

// Create accepts inquiries from anyone; a logged-in buyer gets linked to the
// inquiry via their token.
func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	buyerID := ""
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		buyerID = claims.UserID
	}
	inq, err := h.svc.Create(r.Context(), chi.URLParam(r, "id"), buyerID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusCreated, inq)
}

func (h *InquiryHandler) Respond(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	var req inquiry.RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	inq, err := h.svc.Respond(r.Context(), claims.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, inq)
}

func (h *InquiryHandler) MarkSpam(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	if err := h.svc.MarkSpam(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "inquiry marked as spam"})
}

func (h *InquiryHandler) ListForSeller(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	limit, cursor := parsePage(r)
	result, err := h.svc.ListForSeller(r.Context(), claims.UserID, r.URL.Query().Get("status"), limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *InquiryHandler) ListForCar(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	limit, cursor := parsePage(r)
	result, err := h.svc.ListForCar(r.Context(), claims.UserID, chi.URLParam(r, "id"), limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}
