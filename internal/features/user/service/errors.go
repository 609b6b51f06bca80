package service

import (
	"errors"

	"miniapp-user-backend/internal/common/validation"
	"miniapp-user-backend/internal/features/user/repository"
)

var (
	ErrUserNotFound     = repository.ErrUserNotFound
	ErrStoreUnavailable = repository.ErrStoreUnavailable
	ErrValidation       = errors.New("validation failed")
	ErrPayloadTooLarge  = validation.ErrPayloadTooLarge
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: err.Error(), Err: err}
}
