package validation

import "strings"

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validOperationTypes = map[string]bool{"solo": true, "fleet": true}

// SubmitRequest mirrors the fields needed for submission validation.
type SubmitRequest struct {
	TypeID        string
	ClaimedValue  int64
	OperationType string
	Description   string
	FleetID       string
}

// ValidateSubmitRequest validates the fields of a submit request, including
// the cross-field rule that fleet operations carry a fleet reference.
// Returns a slice of field errors; empty slice means valid.
func ValidateSubmitRequest(req SubmitRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.TypeID) == "" {
		errs = append(errs, FieldError{Field: "typeId", Message: "typeId is required"})
	}

	if req.ClaimedValue <= 0 {
		errs = append(errs, FieldError{Field: "claimedValue", Message: "claimedValue must be a positive integer"})
	}

	if req.OperationType == "" {
		errs = append(errs, FieldError{Field: "operationType", Message: "operationType is required"})
	} else if !validOperationTypes[req.OperationType] {
		errs = append(errs, FieldError{Field: "operationType", Message: `operationType must be "solo" or "fleet"`})
	}

	if req.OperationType == "fleet" && strings.TrimSpace(req.FleetID) == "" {
		errs = append(errs, FieldError{Field: "fleetId", Message: "fleetId is required for fleet operations"})
	}

	if len(req.Description) > 2000 {
		errs = append(errs, FieldError{Field: "description", Message: "description must be at most 2000 characters"})
	}

	return errs
}

var validDecisions = map[string]bool{"approve": true, "deny": true}

// ReviewRequest mirrors the fields needed for review validation.
type ReviewRequest struct {
	Decision string
	Note     string
	Payout   *int64
}

// ValidateReviewRequest validates the fields of a review request.
func ValidateReviewRequest(req ReviewRequest) []FieldError {
	var errs []FieldError

	if req.Decision == "" {
		errs = append(errs, FieldError{Field: "decision", Message: "decision is required"})
	} else if !validDecisions[req.Decision] {
		errs = append(errs, FieldError{Field: "decision", Message: `decision must be "approve" or "deny"`})
	}

	if req.Decision == "approve" && (req.Payout == nil || *req.Payout < 0) {
		errs = append(errs, FieldError{Field: "payout", Message: "payout is required for approvals and must not be negative"})
	}

	if req.Decision == "deny" && strings.TrimSpace(req.Note) == "" {
		errs = append(errs, FieldError{Field: "note", Message: "note is required for denials"})
	}

	if len(req.Note) > 2000 {
		errs = append(errs, FieldError{Field: "note", Message: "note must be at most 2000 characters"})
	}

	return errs
}
