package apperrors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidStructure    = errors.New("invalid project structure")
	ErrDeliverableRequired = errors.New("project structure requires at least one deliverable")
)
