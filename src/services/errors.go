package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"assetmanager/src/repositories"
)

var (
	ErrRateUnavailable     = errors.New("exchange rate unavailable")
	ErrDuplicateSnapshot   = repositories.ErrDuplicateSnapshot
	ErrAssetNotFound       = errors.New("asset not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrValidation          = errors.New("validation failed")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// ValidationError collects per-field messages. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Err returns nil when no field failed.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
