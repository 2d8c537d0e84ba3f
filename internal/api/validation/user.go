package validation

import "strings"

var validRoles = map[string]bool{"member": true, "reviewer": true}

// CreateUserRequest mirrors the fields needed for create user validation.
type CreateUserRequest struct {
	Name string
	Role string
}

// ValidateCreateUserRequest validates the fields of a create user request.
func ValidateCreateUserRequest(req CreateUserRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	if req.Role == "" {
		errs = append(errs, FieldError{Field: "role", Message: "role is required"})
	} else if !validRoles[req.Role] {
		errs = append(errs, FieldError{Field: "role", Message: `role must be "member" or "reviewer"`})
	}

	return errs
}
