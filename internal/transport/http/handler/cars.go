package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carmarket-api/internal/application/listing"
	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/pkg/validate"
	"github.com/carmarket-api/internal/transport/http/middleware"
)

// CarHandler handles public and seller listing endpoints.
type CarHandler struct {
	svc listing.Service
}

func NewCarHandler(svc listing.Service) *CarHandler { return &CarHandler{svc: svc} }

func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := carFilterFromQuery(r)
	limit, cursor := parsePage(r)
	result, err := h.svc.List(r.Context(), filter, limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		viewerID = claims.UserID
	}
	detail, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), viewerID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, detail)
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	var req domain.CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	car, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusCreated, car)
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	var req domain.UpdateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	car, err := h.svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, car)
}

func (h *CarHandler) MarkSold(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	car, err := h.svc.MarkSold(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, car)
}

func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "listing deleted"})
}

func (h *CarHandler) SellerListings(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	limit, cursor := parsePage(r)
	result, err := h.svc.SellerListings(r.Context(), claims.UserID, limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *CarHandler) SellerStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	stats, err := h.svc.Stats(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func carFilterFromQuery(r *http.Request) domain.CarFilter {
	q := r.URL.Query()
	return domain.CarFilter{
		Brand:        q.Get("brand"),
		City:         q.Get("city"),
		FuelType:     q.Get("fuel_type"),
		Transmission: q.Get("transmission"),
		MinPrice:     queryInt(r, "min_price"),
		MaxPrice:     queryInt(r, "max_price"),
		MinYear:      queryInt(r, "min_year"),
		MaxYear:      queryInt(r, "max_year"),
		Search:       q.Get("search"),
	}
}

func parsePage(r *http.Request) (limit int, cursor string) {
	limit = queryInt(r, "limit")
	cursor = r.URL.Query().Get("cursor")
	return
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}
