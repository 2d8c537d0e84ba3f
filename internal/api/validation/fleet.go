package validation

import "strings"

// CreateFleetRequest mirrors the fields needed for create fleet validation.
type CreateFleetRequest struct {
	DisplayName   string
	CommanderName string
}

// ValidateCreateFleetRequest validates the fields of a create fleet request.
func ValidateCreateFleetRequest(req CreateFleetRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.DisplayName) == "" {
		errs = append(errs, FieldError{Field: "displayName", Message: "displayName is required"})
	} else if len(req.DisplayName) > 255 {
		errs = append(errs, FieldError{Field: "displayName", Message: "displayName must be at most 255 characters"})
	}

	if len(req.CommanderName) > 255 {
		errs = append(errs, FieldError{Field: "commanderName", Message: "commanderName must be at most 255 characters"})
	}

	return errs
}

// CreateAssetTypeRequest mirrors the fields needed for asset type validation.
type CreateAssetTypeRequest struct {
	TypeID      string
	DisplayName string
	Category    string
	BaseValue   int64
}

// ValidateCreateAssetTypeRequest validates the fields of a create asset type request.
func ValidateCreateAssetTypeRequest(req CreateAssetTypeRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.TypeID) == "" {
		errs = append(errs, FieldError{Field: "typeId", Message: "typeId is required"})
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		errs = append(errs, FieldError{Field: "displayName", Message: "displayName is required"})
	}
	if strings.TrimSpace(req.Category) == "" {
		errs = append(errs, FieldError{Field: "category", Message: "category is required"})
	}
	if req.BaseValue < 0 {
		errs = append(errs, FieldError{Field: "baseValue", Message: "baseValue must not be negative"})
	}

	return errs
}
