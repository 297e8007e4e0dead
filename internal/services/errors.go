package services

import (
	"errors"
	"strings"

	"agrostats/pkg/contracts/domain"
)

// Service errors
var (
	// Production errors
	ErrNoProductionData = errors.New("no production data found")

	// Crop errors
	ErrCropNotFound = errors.New("crop not found")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)

// ValidationError carries the full validator outcome of a rejected query.
type ValidationError struct {
	Result domain.ValidationResult
}

func (e *ValidationError) Error() string {
	return "invalid query parameters: " + strings.Join(e.Result.Errors, "; ")
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
