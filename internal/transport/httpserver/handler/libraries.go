package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	librarydomain "photo-review-go/internal/domain/library"
	"photo-review-go/internal/pagination"
	"photo-review-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createLibraryRequest struct {
	ProjectID    string  `json:"projectId"`
	Name         string  `json:"name"`
	AbsolutePath string  `json:"absolutePath"`
	Description  *string `json:"description"`
}

type updateLibraryRequest struct {
	Name        *string         `json:"name"`
	Description json.RawMessage `json:"description"`
	Status      *string         `json:"status"`
	IsActive    *bool           `json:"isActive"`
}

type libraryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	AbsolutePath string    `json:"absolutePath"`
	ProjectID    string    `json:"projectId"`
	Status       string    `json:"status"`
	IsActive     bool      `json:"isActive"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (h *Handlers) ListLibraries(w http.ResponseWriter, r *http.Request) {
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

	filter := librarydomain.ListFilter{
		ProjectID: strings.TrimSpace(r.URL.Query().Get("projectId")),
	}

	libraries, total, err := h.Libraries.List(r.Context(), userID, filter, params)
	if err != nil {
		h.log.InternalError("libraries.list: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]libraryResponse, 0, len(libraries))
	for i := range libraries {
		items = append(items, toLibraryResponse(&libraries[i]))
	}

	writeJSON(w, http.StatusOK, pagination.NewPage(items, total, params))
}

func (h *Handlers) CreateLibrary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createLibraryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.ProjectID = strings.TrimSpace(req.ProjectID)
	if req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "projectId is required")
		return
	}

	lib, err := h.Libraries.Create(r.Context(), userID, librarydomain.CreateInput{
		ProjectID:    req.ProjectID,
		Name:         req.Name,
		AbsolutePath: req.AbsolutePath,
		Description:  req.Description,
	})
	if err != nil {
		if errors.Is(err, librarydomain.ErrAccessDenied) {
			h.log.BusinessError("libraries.create: access denied", err, "user_id", userID, "project_id", req.ProjectID)
			writeError(w, http.StatusForbidden, "access_denied", "only project owners can create libraries")
			return
		}
		h.log.BusinessError("libraries.create: create failed", err, "user_id", userID, "project_id", req.ProjectID)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toLibraryResponse(lib))
}

func (h *Handlers) GetLibrary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	libraryID := chi.URLParam(r, "library_id")

	lib, err := h.Libraries.Get(r.Context(), userID, libraryID)
	if err != nil {
		if errors.Is(err, librarydomain.ErrLibraryNotFound) {
			h.log.BusinessError("libraries.get: library not found", err, "user_id", userID, "library_id", libraryID)
			writeError(w, http.StatusNotFound, "library_not_found", "library not found")
			return
		}
		h.log.InternalError("libraries.get: get failed", err, "user_id", userID, "library_id", libraryID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toLibraryResponse(lib))
}

func (h *Handlers) UpdateLibrary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	libraryID := chi.URLParam(r, "library_id")

	var req updateLibraryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := librarydomain.UpdateInput{
		Name:     req.Name,
		Status:   req.Status,
		IsActive: req.IsActive,
	}
	if rawIsSet(req.Description) {
		input.Description.Set = true
		if !rawIsNull(req.Description) {
			value, err := rawString(req.Description)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request", "invalid description")
				return
			}
			input.Description.Value = value
		}
	}

	lib, err := h.Libraries.Update(r.Context(), userID, libraryID, input)
	if err != nil {
		switch {
		case errors.Is(err, librarydomain.ErrLibraryNotFound):
			h.log.BusinessError("libraries.update: library not found", err, "user_id", userID, "library_id", libraryID)
			writeError(w, http.StatusNotFound, "library_not_found", "library not found")
		case errors.Is(err, librarydomain.ErrAccessDenied):
			h.log.BusinessError("libraries.update: access denied", err, "user_id", userID, "library_id", libraryID)
			writeError(w, http.StatusForbidden, "access_denied", "only project owners can update libraries")
		case errors.Is(err, librarydomain.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
		default:
			h.log.InternalError("libraries.update: update failed", err, "user_id", userID, "library_id", libraryID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toLibraryResponse(lib))
}

func (h *Handlers) ArchiveLibrary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	libraryID := chi.URLParam(r, "library_id")

	if err := h.Libraries.Archive(r.Context(), userID, libraryID); err != nil {
		switch {
		case errors.Is(err, librarydomain.ErrLibraryNotFound):
			h.log.BusinessError("libraries.archive: library not found", err, "user_id", userID, "library_id", libraryID)
			writeError(w, http.StatusNotFound, "library_not_found", "library not found")
		case errors.Is(err, librarydomain.ErrAccessDenied):
			h.log.BusinessError("libraries.archive: access denied", err, "user_id", userID, "library_id", libraryID)
			writeError(w, http.StatusForbidden, "access_denied", "only project owners can archive libraries")
		default:
			h.log.InternalError("libraries.archive: archive failed", err, "user_id", userID, "library_id", libraryID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListLibraryPhotos(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	libraryID := chi.URLParam(r, "library_id")

	params, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	photos, total, err := h.Photos.ListByLibrary(r.Context(), userID, libraryID, params)
	if err != nil {
		h.log.InternalError("libraries.photos: list failed", err, "user_id", userID, "library_id", libraryID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]photoResponse, 0, len(photos))
	for i := range photos {
		items = append(items, toPhotoResponse(&photos[i]))
	}

	writeJSON(w, http.StatusOK, pagination.NewPage(items, total, params))
}

func toLibraryResponse(lib *librarydomain.Library) libraryResponse {
	return libraryResponse{
		ID:           lib.ID,
		Name:         lib.Name,
		Description:  lib.Description,
		AbsolutePath: lib.AbsolutePath,
		ProjectID:    lib.ProjectID,
		Status:       lib.Status,
		IsActive:     lib.IsActive,
		CreatedBy:    lib.CreatedBy,
		CreatedAt:    lib.CreatedAt,
	}
}
