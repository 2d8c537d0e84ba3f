package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/srp14/srp/internal/api/middleware"
	"github.com/srp14/srp/internal/api/response"
	"github.com/srp14/srp/internal/stats"
)

// StatsHandler handles the GET /stats dashboard endpoint.
type StatsHandler struct {
	svc *stats.Service
	now func() time.Time
}

// NewStatsHandler creates a new StatsHandler. now is injectable so tests can
// pin the day boundary.
func NewStatsHandler(svc *stats.Service, now func() time.Time) *StatsHandler {
	if now == nil {
		now = time.Now
	}
	return &StatsHandler{svc: svc, now: now}
}

// Get handles GET /stats. Members always get their own scope; reviewers get
// organization-wide numbers unless they ask for ?owner=me.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	var ownerID *uuid.UUID
	if !identity.IsReviewer() || r.URL.Query().Get("owner") == "me" {
		ownerID = &identity.UserID
	}

	summary, err := h.svc.Summarize(r.Context(), ownerID, h.now())
	if err != nil {
		slog.Error("failed to compute stats", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute stats", requestID)
		return
	}

	response.Success(w, http.StatusOK, summary, requestID)
}
