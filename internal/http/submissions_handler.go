package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gracemedia/storefront/internal/submissions"
)

// SubmissionService is the submissions surface the handlers need.
type SubmissionService interface {
	Create(ctx context.Context, sub submissions.Submission) (*submissions.Submission, error)
	ListByKind(ctx context.Context, kind string, limit int) ([]*submissions.Submission, error)
}

type SubmissionsHandler struct {
	submissions SubmissionService
}

func NewSubmissionsHandler(submissionSvc SubmissionService) *SubmissionsHandler {
	return &SubmissionsHandler{submissions: submissionSvc}
}

func (h *SubmissionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sub submissions.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	created, err := h.submissions.Create(r.Context(), sub)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListByKind backs the admin review page.
func (h *SubmissionsHandler) ListByKind(w http.ResponseWriter, r *http.Request) {
	if getUserIDFromContext(r.Context()) == "" {
		respondError(w, http.StatusUnauthorized, "login_required", "authentication required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := h.submissions.ListByKind(r.Context(), chi.URLParam(r, "kind"), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if result == nil {
		result = []*submissions.Submission{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"submissions": result})
}
