package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carmarket-api/internal/application/media"
	"github.com/carmarket-api/internal/application/moderation"
	"github.com/carmarket-api/internal/pkg/validate"
	"github.com/carmarket-api/internal/transport/http/middleware"
)

// AdminHandler handles the moderation surface: pending queue, review actions,
// dashboard counts and audit history.
type AdminHandler struct {
	mod   moderation.Service
	media media.Service
}

func NewAdminHandler(mod moderation.Service, mediaSvc media.Service) *AdminHandler {
	return &AdminHandler{mod: mod, media: mediaSvc}
}

func (h *AdminHandler) Listings(w http.ResponseWriter, r *http.Request) {
	limit, cursor := parsePage(r)
	result, err := h.mod.Listings(r.Context(), r.URL.Query().Get("status"), limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *AdminHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	carID := chi.URLParam(r, "id")
	car, err := h.mod.GetCar(r.Context(), carID)
	if err != nil {
		httpError(w, err)
		return
	}
	mediaList, err := h.media.ListForCar(r.Context(), carID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"car": car, "media": mediaList})
}

func (h *AdminHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	var req moderation.AdminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	car, err := h.mod.AdminUpdate(r.Context(), claims.UserID, chi.URLParam(r, "id"), req, r.RemoteAddr, r.UserAgent())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, car)
}

func (h *AdminHandler) Review(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	var req moderation.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	car, err := h.mod.Review(r.Context(), claims.UserID, chi.URLParam(r, "id"), req, r.RemoteAddr, r.UserAgent())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, car)
}

func (h *AdminHandler) BulkAction(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	var req moderation.BulkReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	result, err := h.mod.BulkReview(r.Context(), claims.UserID, req, r.RemoteAddr, r.UserAgent())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *AdminHandler) Queue(w http.ResponseWriter, r *http.Request) {
	limit, cursor := parsePage(r)
	result, err := h.mod.Queue(r.Context(), r.URL.Query().Get("status"), limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.mod.Dashboard(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, d)
}

func (h *AdminHandler) History(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.mod.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}

func (h *AdminHandler) Activities(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	adminID := r.URL.Query().Get("admin_id")
	if adminID == "" {
		adminID = claims.UserID
	}
	limit, cursor := parsePage(r)
	result, err := h.mod.Activities(r.Context(), adminID, limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}
