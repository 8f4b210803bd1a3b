package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	photodomain "photo-review-go/internal/domain/photo"
	"photo-review-go/internal/pagination"
	"photo-review-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type updatePhotoRequest struct {
	Metadata      json.RawMessage `json:"metadata"`
	ThumbnailPath *string         `json:"thumbnailPath"`
}

type photoResponse struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"projectId"`
	LibraryID     string          `json:"libraryId"`
	Filename      string          `json:"filename"`
	AbsolutePath  string          `json:"absolutePath"`
	ThumbnailPath *string         `json:"thumbnailPath"`
	Hash          *string         `json:"hash"`
	Metadata      json.RawMessage `json:"metadata"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (h *Handlers) ListPhotos(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	params, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	decision, err := parseDecisionParam(r.URL.Query().Get("decision"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid decision")
		return
	}

	filter := photodomain.ListFilter{
		ProjectID: strings.TrimSpace(r.URL.Query().Get("projectId")),
		LibraryID: strings.TrimSpace(r.URL.Query().Get("libraryId")),
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		Decision:  decision,
	}

	photos, total, err := h.Photos.List(r.Context(), userID, filter, params)
	if err != nil {
		h.log.InternalError("photos.list: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]photoResponse, 0, len(photos))
	for i := range photos {
		items = append(items, toPhotoResponse(&photos[i]))
	}

	writeJSON(w, http.StatusOK, pagination.NewPage(items, total, params))
}

func (h *Handlers) GetPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	photoID := chi.URLParam(r, "photo_id")

	p, err := h.Photos.Get(r.Context(), userID, photoID)
	if err != nil {
		if errors.Is(err, photodomain.ErrPhotoNotFound) {
			h.log.BusinessError("photos.get: photo not found", err, "user_id", userID, "photo_id", photoID)
			writeError(w, http.StatusNotFound, "photo_not_found", "photo not found")
			return
		}
		h.log.InternalError("photos.get: get failed", err, "user_id", userID, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toPhotoResponse(p))
}

func (h *Handlers) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	photoID := chi.URLParam(r, "photo_id")

	var req updatePhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	p, err := h.Photos.Update(r.Context(), userID, photoID, photodomain.UpdateInput{
		Metadata:      req.Metadata,
		ThumbnailPath: req.ThumbnailPath,
	})
	if err != nil {
		if errors.Is(err, photodomain.ErrPhotoNotFound) {
			h.log.BusinessError("photos.update: photo not found", err, "user_id", userID, "photo_id", photoID)
			writeError(w, http.StatusNotFound, "photo_not_found", "photo not found")
			return
		}
		h.log.InternalError("photos.update: update failed", err, "user_id", userID, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toPhotoResponse(p))
}

func (h *Handlers) GeneratePhotoThumbnail(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	photoID := chi.URLParam(r, "photo_id")

	p, err := h.Photos.GenerateThumbnail(r.Context(), userID, photoID)
	if err != nil {
		switch {
		case errors.Is(err, photodomain.ErrPhotoNotFound):
			h.log.BusinessError("photos.thumbnail: photo not found", err, "user_id", userID, "photo_id", photoID)
			writeError(w, http.StatusNotFound, "photo_not_found", "photo not found")
		case errors.Is(err, photodomain.ErrSourceUnavailable):
			h.log.BusinessError("photos.thumbnail: source unavailable", err, "user_id", userID, "photo_id", photoID)
			writeError(w, http.StatusConflict, "source_unavailable", "photo source file unavailable")
		case errors.Is(err, photodomain.ErrUnsupportedFormat):
			h.log.BusinessError("photos.thumbnail: unsupported format", err, "user_id", userID, "photo_id", photoID)
			writeError(w, http.StatusUnprocessableEntity, "unsupported_format", "unsupported image format")
		default:
			h.log.InternalError("photos.thumbnail: generate failed", err, "user_id", userID, "photo_id", photoID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPhotoResponse(p))
}

func toPhotoResponse(p *photodomain.Photo) photoResponse {
	return photoResponse{
		ID:            p.ID,
		ProjectID:     p.ProjectID,
		LibraryID:     p.LibraryID,
		Filename:      p.Filename,
		AbsolutePath:  p.AbsolutePath,
		ThumbnailPath: p.ThumbnailPath,
		Hash:          p.Hash,
		Metadata:      p.Metadata,
		CreatedAt:     p.CreatedAt,
	}
}
