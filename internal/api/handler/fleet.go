package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/srp14/srp/internal/api/middleware"
	"github.com/srp14/srp/internal/api/response"
	"github.com/srp14/srp/internal/api/validation"
	"github.com/srp14/srp/internal/fleet"
)

type createFleetRequest struct {
	DisplayName   string `json:"displayName"`
	CommanderName string `json:"commanderName"`
}

type fleetResponse struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	CommanderName string `json:"commanderName,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

func toFleetResponse(f *fleet.Fleet) fleetResponse {
	return fleetResponse{
		ID:            f.ID.String(),
		DisplayName:   f.DisplayName,
		CommanderName: f.CommanderName,
		CreatedAt:     f.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// FleetHandler handles fleet registry endpoints.
type FleetHandler struct {
	repo fleet.Repository
}

// NewFleetHandler creates a new FleetHandler.
func NewFleetHandler(repo fleet.Repository) *FleetHandler {
	return &FleetHandler{repo: repo}
}

// Create handles POST /fleets.
func (h *FleetHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createFleetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	req.DisplayName = strings.TrimSpace(req.DisplayName)

	fieldErrors := validation.ValidateCreateFleetRequest(validation.CreateFleetRequest{
		DisplayName:   req.DisplayName,
		CommanderName: req.CommanderName,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	f := &fleet.Fleet{
		DisplayName:   req.DisplayName,
		CommanderName: req.CommanderName,
	}

	if err := h.repo.Create(r.Context(), f); err != nil {
		slog.Error("failed to create fleet", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create fleet", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toFleetResponse(f), requestID)
}

// List handles GET /fleets.
func (h *FleetHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	fleets, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list fleets", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list fleets", requestID)
		return
	}

	items := make([]fleetResponse, 0, len(fleets))
	for i := range fleets {
		items = append(items, toFleetResponse(&fleets[i]))
	}
	response.Success(w, http.StatusOK, items, requestID)
}
