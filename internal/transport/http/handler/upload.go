package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carmarket-api/internal/application/media"
	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/transport/http/middleware"
)

// MaxImagesPerUpload caps how many files one car-images request may carry.
const MaxImagesPerUpload = 10

// UploadHandler handles media upload endpoints.
type UploadHandler struct {
	svc media.Service
}

func NewUploadHandler(svc media.Service) *UploadHandler { return &UploadHandler{svc: svc} }

func (h *UploadHandler) CarImages(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "missing images field")
		return
	}
	if len(files) > MaxImagesPerUpload {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "at most 10 images per request")
		return
	}

	uploaded := make([]*domain.CarMedia, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unreadable file in form")
			return
		}
		m, err := h.svc.Upload(r.Context(), media.UploadInput{
			Reader:      f,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Kind:        domain.MediaKindImage,
			UploaderID:  claims.UserID,
		})
		f.Close()
		if err != nil {
			httpError(w, err)
			return
		}
		uploaded = append(uploaded, m)
	}
	writeData(w, http.StatusCreated, map[string]interface{}{"media": uploaded})
}

func (h *UploadHandler) CarVideo(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(media.MaxVideoSize); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid multipart form")
		return
	}
	f, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "missing video field")
		return
	}
	defer f.Close()

	m, err := h.svc.Upload(r.Context(), media.UploadInput{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Kind:        domain.MediaKindVideo,
		UploaderID:  claims.UserID,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusCreated, m)
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_FAILED", "unauthorized")
		return
	}
	isAdmin := domain.ValidAdminRole(claims.Role)
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID, isAdmin); err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "file deleted"})
}
