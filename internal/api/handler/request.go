package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/srp14/srp/internal/api/middleware"
	"github.com/srp14/srp/internal/api/response"
	"github.com/srp14/srp/internal/api/validation"
	"github.com/srp14/srp/internal/audit"
	"github.com/srp14/srp/internal/catalog"
	"github.com/srp14/srp/internal/fleet"
	"github.com/srp14/srp/internal/metrics"
	"github.com/srp14/srp/internal/payout"
	"github.com/srp14/srp/internal/request"
)

// submitRequestBody is the request body for POST /requests.
type submitRequestBody struct {
	TypeID        string `json:"typeId"`
	ClaimedValue  int64  `json:"claimedValue"`
	OperationType string `json:"operationType"`
	SpecialRole   bool   `json:"specialRole"`
	Description   string `json:"description"`
	FleetID       string `json:"fleetId,omitempty"`
}

// reviewRequestBody is the request body for POST /requests/{id}/review.
type reviewRequestBody struct {
	Decision string `json:"decision"`
	Note     string `json:"note,omitempty"`
	Payout   *int64 `json:"payout,omitempty"`
}

// requestResponse is the API representation of an SRP request.
type requestResponse struct {
	ID              string  `json:"id"`
	OwnerID         string  `json:"ownerId"`
	OwnerName       string  `json:"ownerName"`
	TypeID          string  `json:"typeId"`
	AssetName       string  `json:"assetName"`
	Category        string  `json:"category"`
	ClaimedValue    int64   `json:"claimedValue"`
	OperationType   string  `json:"operationType"`
	SpecialRole     bool    `json:"specialRole"`
	Description     string  `json:"description"`
	FleetID         *string `json:"fleetId,omitempty"`
	FleetName       *string `json:"fleetName,omitempty"`
	Status          string  `json:"status"`
	PayoutAmount    *int64  `json:"payoutAmount,omitempty"`
	EstimatedPayout int64   `json:"estimatedPayout"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// auditEntryResponse is the API representation of one audit entry.
type auditEntryResponse struct {
	Kind      string  `json:"kind"`
	Actor     string  `json:"actor"`
	Note      *string `json:"note,omitempty"`
	Timestamp string  `json:"timestamp"`
}

func toRequestResponse(req *request.Request) requestResponse {
	resp := requestResponse{
		ID:              req.ID.String(),
		OwnerID:         req.OwnerID.String(),
		OwnerName:       req.OwnerName,
		TypeID:          req.TypeID,
		AssetName:       req.AssetName,
		Category:        req.Category,
		ClaimedValue:    req.ClaimedValue,
		OperationType:   string(req.OperationType),
		SpecialRole:     req.SpecialRole,
		Description:     req.Description,
		FleetName:       req.FleetName,
		Status:          string(req.Status),
		PayoutAmount:    req.PayoutAmount,
		EstimatedPayout: req.EstimatedPayout,
		CreatedAt:       req.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       req.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if req.FleetID != nil {
		s := req.FleetID.String()
		resp.FleetID = &s
	}
	return resp
}

func toAuditEntryResponse(e *audit.Entry) auditEntryResponse {
	return auditEntryResponse{
		Kind:      string(e.Kind),
		Actor:     e.Actor,
		Note:      e.Note,
		Timestamp: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// RequestService is the lifecycle surface the handler drives. It is satisfied
// by *request.Service.
type RequestService interface {
	Submit(ctx context.Context, owner request.Actor, payload request.SubmitPayload) (*request.Request, error)
	Get(ctx context.Context, id uuid.UUID) (*request.Request, error)
	List(ctx context.Context, filter request.ListFilter) (*request.ListResult, error)
	History(ctx context.Context, id uuid.UUID) ([]audit.Entry, error)
	Review(ctx context.Context, id uuid.UUID, reviewer request.Actor, decision request.Decision, note string, payoutAmount *int64) (*request.Request, error)
	MarkProcessing(ctx context.Context, id uuid.UUID, reviewer request.Actor) (*request.Request, error)
	MarkPaid(ctx context.Context, id uuid.UUID, actor request.Actor) (*request.Request, error)
}

// RequestHandler handles SRP request lifecycle endpoints.
type RequestHandler struct {
	svc     RequestService
	metrics *metrics.Metrics
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(svc RequestService, m *metrics.Metrics) *RequestHandler {
	return &RequestHandler{svc: svc, metrics: m}
}

// Submit handles POST /requests.
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var body submitRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateSubmitRequest(validation.SubmitRequest{
		TypeID:        body.TypeID,
		ClaimedValue:  body.ClaimedValue,
		OperationType: body.OperationType,
		Description:   body.Description,
		FleetID:       body.FleetID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	var fleetID *uuid.UUID
	if body.FleetID != "" {
		id, err := uuid.Parse(body.FleetID)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "fleetId must be a valid UUID", requestID)
			return
		}
		fleetID = &id
	}

	owner := request.Actor{ID: identity.UserID, Name: identity.Name}
	payload := request.SubmitPayload{
		TypeID:        body.TypeID,
		ClaimedValue:  body.ClaimedValue,
		OperationType: request.OperationType(body.OperationType),
		SpecialRole:   body.SpecialRole,
		Description:   body.Description,
		FleetID:       fleetID,
	}

	req, err := h.svc.Submit(r.Context(), owner, payload)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrItemNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Asset type not found", requestID)
		case errors.Is(err, fleet.ErrFleetNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Fleet not found", requestID)
		case errors.Is(err, request.ErrFleetRequired),
			errors.Is(err, request.ErrInvalidClaimedValue),
			errors.Is(err, payout.ErrInvalidOperationType),
			errors.Is(err, payout.ErrNegativeClaimedValue):
			response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), requestID)
		default:
			slog.Error("failed to submit request", "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit request", requestID)
		}
		return
	}

	h.metrics.RequestsSubmitted.Inc()
	response.Success(w, http.StatusCreated, toRequestResponse(req), requestID)
}

// List handles GET /requests. Members only see their own requests; reviewers
// may scope by owner or see everything.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	filter, ok := parseListFilter(w, r, requestID)
	if !ok {
		return
	}

	if !identity.IsReviewer() {
		filter.OwnerID = &identity.UserID
	}

	result, err := h.svc.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list requests", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list requests", requestID)
		return
	}

	items := make([]requestResponse, 0, len(result.Requests))
	for i := range result.Requests {
		items = append(items, toRequestResponse(&result.Requests[i]))
	}
	response.SuccessList(w, http.StatusOK, items, result.Total, result.Page, result.Limit, requestID)
}

// GetByID handles GET /requests/{id}. Members may only read their own.
func (h *RequestHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseRequestID(w, r, requestID)
	if !ok {
		return
	}

	req, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Request not found", requestID)
			return
		}
		slog.Error("failed to get request", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get request", requestID)
		return
	}

	if !identity.IsReviewer() && req.OwnerID != identity.UserID {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "You may only view your own requests", requestID)
		return
	}

	response.Success(w, http.StatusOK, toRequestResponse(req), requestID)
}

// History handles GET /requests/{id}/audit.
func (h *RequestHandler) History(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseRequestID(w, r, requestID)
	if !ok {
		return
	}

	req, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Request not found", requestID)
			return
		}
		slog.Error("failed to get request", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get request", requestID)
		return
	}

	if !identity.IsReviewer() && req.OwnerID != identity.UserID {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "You may only view your own requests", requestID)
		return
	}

	entries, err := h.svc.History(r.Context(), id)
	if err != nil {
		slog.Error("failed to load audit history", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load audit history", requestID)
		return
	}

	items := make([]auditEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toAuditEntryResponse(&entries[i]))
	}
	response.Success(w, http.StatusOK, items, requestID)
}

// Review handles POST /requests/{id}/review.
func (h *RequestHandler) Review(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseRequestID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var body reviewRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateReviewRequest(validation.ReviewRequest{
		Decision: body.Decision,
		Note:     body.Note,
		Payout:   body.Payout,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	reviewer := request.Actor{ID: identity.UserID, Name: identity.Name}
	req, err := h.svc.Review(r.Context(), id, reviewer, request.Decision(body.Decision), body.Note, body.Payout)
	if err != nil {
		h.writeLifecycleError(w, err, id, requestID)
		return
	}

	h.metrics.ReviewDecisions.WithLabelValues(body.Decision).Inc()
	response.Success(w, http.StatusOK, toRequestResponse(req), requestID)
}

// MarkProcessing handles POST /requests/{id}/processing.
func (h *RequestHandler) MarkProcessing(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseRequestID(w, r, requestID)
	if !ok {
		return
	}

	reviewer := request.Actor{ID: identity.UserID, Name: identity.Name}
	req, err := h.svc.MarkProcessing(r.Context(), id, reviewer)
	if err != nil {
		h.writeLifecycleError(w, err, id, requestID)
		return
	}

	response.Success(w, http.StatusOK, toRequestResponse(req), requestID)
}

// MarkPaid handles POST /requests/{id}/pay.
func (h *RequestHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseRequestID(w, r, requestID)
	if !ok {
		return
	}

	actor := request.Actor{ID: identity.UserID, Name: identity.Name}
	req, err := h.svc.MarkPaid(r.Context(), id, actor)
	if err != nil {
		h.writeLifecycleError(w, err, id, requestID)
		return
	}

	h.metrics.PayoutsConfirmed.Inc()
	response.Success(w, http.StatusOK, toRequestResponse(req), requestID)
}

// writeLifecycleError maps service errors to API responses. Transition
// violations surface verbatim so the caller sees which state blocked them.
func (h *RequestHandler) writeLifecycleError(w http.ResponseWriter, err error, id uuid.UUID, requestID string) {
	switch {
	case errors.Is(err, request.ErrNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Request not found", requestID)
	case errors.Is(err, request.ErrInvalidTransition):
		response.Err(w, http.StatusConflict, "INVALID_TRANSITION", err.Error(), requestID)
	case errors.Is(err, request.ErrPayoutRequired),
		errors.Is(err, request.ErrNoteRequired):
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), requestID)
	default:
		slog.Error("lifecycle operation failed", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed", requestID)
	}
}

func parseRequestID(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}

func parseListFilter(w http.ResponseWriter, r *http.Request, requestID string) (request.ListFilter, bool) {
	var filter request.ListFilter

	q := r.URL.Query()
	if owner := q.Get("owner"); owner != "" {
		id, err := uuid.Parse(owner)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "owner must be a valid UUID", requestID)
			return filter, false
		}
		filter.OwnerID = &id
	}
	if status := q.Get("status"); status != "" {
		switch request.Status(status) {
		case request.StatusPending, request.StatusProcessing, request.StatusApproved, request.StatusDenied:
			s := request.Status(status)
			filter.Status = &s
		default:
			response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be one of: pending, processing, approved, denied", requestID)
			return filter, false
		}
	}
	if page := q.Get("page"); page != "" {
		if n, err := parsePositiveInt(page); err == nil {
			filter.Page = n
		}
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := parsePositiveInt(limit); err == nil {
			filter.Limit = n
		}
	}

	return filter, true
}
