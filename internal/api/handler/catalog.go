package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/srp14/srp/internal/api/middleware"
	"github.com/srp14/srp/internal/api/response"
	"github.com/srp14/srp/internal/api/validation"
	"github.com/srp14/srp/internal/catalog"
)

type createAssetTypeRequest struct {
	TypeID      string `json:"typeId"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category"`
	BaseValue   int64  `json:"baseValue"`
}

type assetTypeResponse struct {
	TypeID      string `json:"typeId"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category"`
	BaseValue   int64  `json:"baseValue"`
	CreatedAt   string `json:"createdAt"`
}

func toAssetTypeResponse(item *catalog.Item) assetTypeResponse {
	return assetTypeResponse{
		TypeID:      item.TypeID,
		DisplayName: item.DisplayName,
		Category:    item.Category,
		BaseValue:   item.BaseValue,
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// CatalogHandler handles asset catalog endpoints.
type CatalogHandler struct {
	repo catalog.Repository
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(repo catalog.Repository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// Create handles POST /asset-types.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createAssetTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	req.TypeID = strings.TrimSpace(req.TypeID)

	fieldErrors := validation.ValidateCreateAssetTypeRequest(validation.CreateAssetTypeRequest{
		TypeID:      req.TypeID,
		DisplayName: req.DisplayName,
		Category:    req.Category,
		BaseValue:   req.BaseValue,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	item := &catalog.Item{
		TypeID:      req.TypeID,
		DisplayName: req.DisplayName,
		Category:    req.Category,
		BaseValue:   req.BaseValue,
	}

	if err := h.repo.Create(r.Context(), item); err != nil {
		if errors.Is(err, catalog.ErrDuplicateTypeID) {
			response.Err(w, http.StatusConflict, "DUPLICATE_TYPE_ID", fmt.Sprintf("An asset type with id %q already exists", req.TypeID), requestID)
			return
		}
		slog.Error("failed to create asset type", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create asset type", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toAssetTypeResponse(item), requestID)
}

// List handles GET /asset-types.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	items, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list asset types", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list asset types", requestID)
		return
	}

	out := make([]assetTypeResponse, 0, len(items))
	for i := range items {
		out = append(out, toAssetTypeResponse(&items[i]))
	}
	response.Success(w, http.StatusOK, out, requestID)
}
