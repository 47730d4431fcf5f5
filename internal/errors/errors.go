// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation means a required part of the workflow is missing.
	ErrValidation = errors.New("workflow configuration is incomplete")

	// ErrSummaryFailed hides the underlying text-generation failure.
	ErrSummaryFailed = errors.New("failed to generate workflow summary")

	// ErrBusy is returned when a summary is already being generated.
	ErrBusy = errors.New("a summary is already being generated")

	ErrMissingCredential = errors.New("API_KEY environment variable not set")
)

// ErrFilterNotFound is returned when removing a filter id that is not in the list
type ErrFilterNotFound struct {
	FilterID int
}

func (e *ErrFilterNotFound) Error() string {
	return fmt.Sprintf("filter with ID %d not found", e.FilterID)
}

// Helper constructor
func NewFilterNotFound(id int) error {
	return &ErrFilterNotFound{FilterID: id}
}
