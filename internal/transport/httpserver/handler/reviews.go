package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	reviewdomain "photo-review-go/internal/domain/review"
	"photo-review-go/internal/pagination"
	"photo-review-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type putReviewRequest struct {
	LibraryID string          `json:"libraryId"`
	Seen      *bool           `json:"seen"`
	Decision  json.RawMessage `json:"decision"`
	RenamedTo json.RawMessage `json:"renamedTo"`
}

type reviewResponse struct {
	ID        string     `json:"id"`
	PhotoID   string     `json:"photoId"`
	UserID    string     `json:"userId"`
	LibraryID string     `json:"libraryId"`
	Seen      bool       `json:"seen"`
	Decision  *int16     `json:"decision"`
	RenamedTo *string    `json:"renamedTo"`
	SeenAt    time.Time  `json:"seenAt"`
	VotedAt   *time.Time `json:"votedAt"`
}

func (h *Handlers) PutPhotoReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	photoID := chi.URLParam(r, "photo_id")

	var req putReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := reviewdomain.UpsertInput{
		PhotoID:   photoID,
		LibraryID: strings.TrimSpace(req.LibraryID),
		Seen:      req.Seen,
	}
	if rawIsSet(req.Decision) {
		input.Decision.Set = true
		if !rawIsNull(req.Decision) {
			value, err := rawInt16(req.Decision)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request", "invalid decision")
				return
			}
			input.Decision.Value = value
		}
	}
	if rawIsSet(req.RenamedTo) {
		input.RenamedTo.Set = true
		if !rawIsNull(req.RenamedTo) {
			value, err := rawString(req.RenamedTo)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request", "invalid renamedTo")
				return
			}
			input.RenamedTo.Value = value
		}
	}

	review, err := h.Reviews.Upsert(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, reviewdomain.ErrInvalidDecision):
			writeError(w, http.StatusBadRequest, "invalid_request", "decision must be -1 or 1")
		case errors.Is(err, reviewdomain.ErrAccessDenied):
			h.log.BusinessError("reviews.put: access denied", err, "user_id", userID, "photo_id", photoID)
			writeError(w, http.StatusForbidden, "access_denied", "not a member of the photo's project")
		default:
			h.log.InternalError("reviews.put: upsert failed", err, "user_id", userID, "photo_id", photoID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toReviewResponse(review))
}

func (h *Handlers) ListPhotoReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	photoID := chi.URLParam(r, "photo_id")

	params, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	reviews, total, err := h.Reviews.ListForPhoto(r.Context(), userID, photoID, params)
	if err != nil {
		h.log.InternalError("reviews.list_photo: list failed", err, "user_id", userID, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, toReviewResponse(&reviews[i]))
	}

	writeJSON(w, http.StatusOK, pagination.NewPage(items, total, params))
}

func (h *Handlers) ListMyReviews(w http.ResponseWriter, r *http.Request) {
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

	filter := reviewdomain.ListFilter{
		ProjectID: strings.TrimSpace(r.URL.Query().Get("projectId")),
		LibraryID: strings.TrimSpace(r.URL.Query().Get("libraryId")),
		Decision:  decision,
	}

	reviews, total, err := h.Reviews.ListMine(r.Context(), userID, filter, params)
	if err != nil {
		h.log.InternalError("reviews.list_mine: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, toReviewResponse(&reviews[i]))
	}

	writeJSON(w, http.StatusOK, pagination.NewPage(items, total, params))
}

func toReviewResponse(review *reviewdomain.PhotoReview) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		PhotoID:   review.PhotoID,
		UserID:    review.UserID,
		LibraryID: review.LibraryID,
		Seen:      review.Seen,
		Decision:  review.Decision,
		RenamedTo: review.RenamedTo,
		SeenAt:    review.SeenAt,
		VotedAt:   review.VotedAt,
	}
}
