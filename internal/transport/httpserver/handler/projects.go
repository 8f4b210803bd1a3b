package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	projectdomain "photo-review-go/internal/domain/project"
	"photo-review-go/internal/pagination"
	"photo-review-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createProjectRequest struct {
	Name     string `json:"name"`
	RootPath string `json:"rootPath"`
}

type updateProjectRequest struct {
	Name     *string `json:"name"`
	Status   *string `json:"status"`
	IsActive *bool   `json:"isActive"`
	RootPath *string `json:"rootPath"`
}

type projectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	IsActive  bool      `json:"isActive"`
	RootPath  string    `json:"rootPath"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
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

	isActive, err := parseBoolParam(r.URL.Query().Get("isActive"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid isActive")
		return
	}

	filter := projectdomain.ListFilter{
		Status:   strings.TrimSpace(r.URL.Query().Get("status")),
		IsActive: isActive,
	}

	projects, total, err := h.Projects.List(r.Context(), userID, filter, params)
	if err != nil {
		if errors.Is(err, projectdomain.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
			return
		}
		h.log.InternalError("projects.list: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]projectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, toProjectResponse(&projects[i]))
	}

	writeJSON(w, http.StatusOK, pagination.NewPage(items, total, params))
}

func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	proj, err := h.Projects.Create(r.Context(), userID, req.Name, req.RootPath)
	if err != nil {
		h.log.BusinessError("projects.create: create failed", err, "user_id", userID)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(proj))
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	projectID := chi.URLParam(r, "project_id")

	proj, err := h.Projects.Get(r.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, projectdomain.ErrProjectNotFound) {
			h.log.BusinessError("projects.get: project not found", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusNotFound, "project_not_found", "project not found")
			return
		}
		h.log.InternalError("projects.get: get failed", err, "user_id", userID, "project_id", projectID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(proj))
}

func (h *Handlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	projectID := chi.URLParam(r, "project_id")

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := projectdomain.UpdateInput{
		Name:     req.Name,
		Status:   req.Status,
		IsActive: req.IsActive,
		RootPath: req.RootPath,
	}

	proj, err := h.Projects.Update(r.Context(), userID, projectID, input)
	if err != nil {
		switch {
		case errors.Is(err, projectdomain.ErrProjectNotFound):
			h.log.BusinessError("projects.update: project not found", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusNotFound, "project_not_found", "project not found")
		case errors.Is(err, projectdomain.ErrAccessDenied):
			h.log.BusinessError("projects.update: access denied", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusForbidden, "access_denied", "only owners can update projects")
		case errors.Is(err, projectdomain.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
		default:
			h.log.InternalError("projects.update: update failed", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(proj))
}

func (h *Handlers) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	projectID := chi.URLParam(r, "project_id")

	if err := h.Projects.Archive(r.Context(), userID, projectID); err != nil {
		switch {
		case errors.Is(err, projectdomain.ErrProjectNotFound):
			h.log.BusinessError("projects.archive: project not found", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusNotFound, "project_not_found", "project not found")
		case errors.Is(err, projectdomain.ErrAccessDenied):
			h.log.BusinessError("projects.archive: access denied", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusForbidden, "access_denied", "only owners can archive projects")
		default:
			h.log.InternalError("projects.archive: archive failed", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	projectID := chi.URLParam(r, "project_id")

	if err := h.Projects.Delete(r.Context(), userID, projectID); err != nil {
		switch {
		case errors.Is(err, projectdomain.ErrProjectNotFound):
			h.log.BusinessError("projects.delete: project not found", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusNotFound, "project_not_found", "project not found")
		case errors.Is(err, projectdomain.ErrAccessDenied):
			h.log.BusinessError("projects.delete: access denied", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusForbidden, "access_denied", "only owners can delete projects")
		default:
			h.log.InternalError("projects.delete: delete failed", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toProjectResponse(proj *projectdomain.Project) projectResponse {
	return projectResponse{
		ID:        proj.ID,
		Name:      proj.Name,
		Status:    proj.Status,
		IsActive:  proj.IsActive,
		RootPath:  proj.RootPath,
		CreatedBy: proj.CreatedBy,
		CreatedAt: proj.CreatedAt,
	}
}
