package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the HTTP layer. Callers classify with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrIO           = errors.New("file i/o failure")
	ErrStorage      = errors.New("storage failure")
)

var (
	ErrIDRequired = fmt.Errorf("%w: id is required", ErrInvalidInput)
	ErrReaderNil  = fmt.Errorf("%w: reader is nil", ErrInvalidInput)
)

// storageFailure wraps a persistence error as ErrStorage while keeping the cause inspectable.
func storageFailure(action string, err error) error {
	return fmt.Errorf("%s: %w: %w", action, ErrStorage, err)
}
