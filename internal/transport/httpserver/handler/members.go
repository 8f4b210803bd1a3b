package handler

import (
	"errors"
	"net/http"
	"strings"

	projectdomain "photo-review-go/internal/domain/project"
	userdomain "photo-review-go/internal/domain/user"
	"photo-review-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type addMemberRequest struct {
	UserID  string `json:"userId"`
	IsOwner bool   `json:"isOwner"`
}

type updateMemberRequest struct {
	IsOwner bool `json:"isOwner"`
}

func (h *Handlers) ListProjectMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	projectID := chi.URLParam(r, "project_id")

	members, err := h.Projects.ListMembers(r.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, projectdomain.ErrAccessDenied) {
			h.log.BusinessError("members.list: access denied", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusForbidden, "access_denied", "only owners can list members")
			return
		}
		h.log.InternalError("members.list: list failed", err, "user_id", userID, "project_id", projectID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	if members == nil {
		members = []projectdomain.MemberInfo{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *Handlers) AddProjectMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	projectID := chi.URLParam(r, "project_id")

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	// Check the user exists up front so an unknown id surfaces as a 404
	// instead of a foreign key violation from the insert.
	if _, err := h.Users.Get(r.Context(), req.UserID); err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			h.log.BusinessError("members.add: user not found", err, "user_id", userID, "project_id", projectID, "member_id", req.UserID)
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("members.add: user lookup failed", err, "user_id", userID, "project_id", projectID, "member_id", req.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	member, err := h.Projects.AddMember(r.Context(), userID, projectID, req.UserID, req.IsOwner)
	if err != nil {
		if errors.Is(err, projectdomain.ErrAccessDenied) {
			h.log.BusinessError("members.add: access denied", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusForbidden, "access_denied", "only owners can add members")
			return
		}
		h.log.InternalError("members.add: add failed", err, "user_id", userID, "project_id", projectID, "member_id", req.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func (h *Handlers) UpdateProjectMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	projectID := chi.URLParam(r, "project_id")
	memberID := chi.URLParam(r, "user_id")

	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	member, err := h.Projects.UpdateMember(r.Context(), userID, projectID, memberID, req.IsOwner)
	if err != nil {
		switch {
		case errors.Is(err, projectdomain.ErrAccessDenied):
			h.log.BusinessError("members.update: access denied", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusForbidden, "access_denied", "only owners can update members")
		case errors.Is(err, projectdomain.ErrMemberNotFound):
			h.log.BusinessError("members.update: member not found", err, "user_id", userID, "project_id", projectID, "member_id", memberID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, projectdomain.ErrLastOwner):
			h.log.BusinessError("members.update: last owner", err, "user_id", userID, "project_id", projectID, "member_id", memberID)
			writeError(w, http.StatusForbidden, "last_owner", "project must retain at least one owner")
		default:
			h.log.InternalError("members.update: update failed", err, "user_id", userID, "project_id", projectID, "member_id", memberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, member)
}

func (h *Handlers) RemoveProjectMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	projectID := chi.URLParam(r, "project_id")
	memberID := chi.URLParam(r, "user_id")

	if err := h.Projects.RemoveMember(r.Context(), userID, projectID, memberID); err != nil {
		switch {
		case errors.Is(err, projectdomain.ErrAccessDenied):
			h.log.BusinessError("members.remove: access denied", err, "user_id", userID, "project_id", projectID)
			writeError(w, http.StatusForbidden, "access_denied", "only owners can remove members")
		case errors.Is(err, projectdomain.ErrMemberNotFound):
			h.log.BusinessError("members.remove: member not found", err, "user_id", userID, "project_id", projectID, "member_id", memberID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, projectdomain.ErrLastOwner):
			h.log.BusinessError("members.remove: last owner", err, "user_id", userID, "project_id", projectID, "member_id", memberID)
			writeError(w, http.StatusForbidden, "last_owner", "project must retain at least one owner")
		default:
			h.log.InternalError("members.remove: remove failed", err, "user_id", userID, "project_id", projectID, "member_id", memberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
