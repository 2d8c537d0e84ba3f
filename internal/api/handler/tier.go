package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/srp14/srp/internal/api/middleware"
	"github.com/srp14/srp/internal/api/response"
	"github.com/srp14/srp/internal/tier"
)

// tierResponse is the API representation of one tier definition.
type tierResponse struct {
	Name       string   `json:"name"`
	PayoutCap  int64    `json:"payoutCap"`
	Categories []string `json:"categories"`
}

// TierHandler handles tier table endpoints.
type TierHandler struct {
	table      *tier.Table
	configPath string
}

// NewTierHandler creates a new TierHandler.
func NewTierHandler(table *tier.Table, configPath string) *TierHandler {
	return &TierHandler{table: table, configPath: configPath}
}

// List handles GET /tiers.
func (h *TierHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	defs := h.table.Definitions()
	items := make([]tierResponse, 0, len(defs))
	for _, d := range defs {
		items = append(items, tierResponse{
			Name:       d.Name,
			PayoutCap:  d.PayoutCap,
			Categories: d.Categories,
		})
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Reload handles POST /tiers/reload. On failure the previous mapping stays in
// effect, so a bad config push never strips caps mid-flight.
func (h *TierHandler) Reload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.table.Load(h.configPath); err != nil {
		if errors.Is(err, tier.ErrConfig) {
			response.Err(w, http.StatusUnprocessableEntity, "CONFIG_ERROR", err.Error(), requestID)
			return
		}
		slog.Error("failed to reload tier table", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reload tier table", requestID)
		return
	}

	slog.Info("tier table reloaded", "path", h.configPath)
	h.List(w, r)
}
