package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carmarket-api/internal/application/notification"
	"github.com/carmarket-api/internal/transport/http/middleware"
)

// NotificationHandler handles the authenticated user's notification feed.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	unreadOnly := r.URL.Query().Get("all") != "true"
	limit, cursor := parsePage(r)
	result, err := h.svc.List(r.Context(), claims.UserID, unreadOnly, limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	if err := h.svc.MarkRead(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "notification read"})
}
