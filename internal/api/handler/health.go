package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/srp14/srp/internal/api/middleware"
	"github.com/srp14/srp/internal/api/response"
	"github.com/srp14/srp/internal/tier"
)

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	tiers   *tier.Table
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, tiers *tier.Table, version string) *HealthHandler {
	return &HealthHandler{db: db, tiers: tiers, version: version}
}

type healthData struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	Database        bool   `json:"database"`
	TierTableLoaded bool   `json:"tierTableLoaded"`
}

// ServeHTTP handles the health check request. An unloaded tier table is
// degraded, not down: submissions still work with uncapped payouts.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbOK := h.db.Ping(ctx) == nil
	tiersLoaded := h.tiers.IsLoaded()

	status := "healthy"
	if !dbOK || !tiersLoaded {
		status = "degraded"
	}

	data := healthData{
		Status:          status,
		Version:         h.version,
		Database:        dbOK,
		TierTableLoaded: tiersLoaded,
	}

	response.Success(w, http.StatusOK, data, requestID)
}

// parsePositiveInt parses a positive integer query parameter.
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("value must be positive: %d", n)
	}
	return n, nil
}
