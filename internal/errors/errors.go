package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryTransient represents remote call failures that persisted through retry.
	// The affected unit is logged and skipped; the run continues.
	CategoryTransient ErrorCategory = "transient"
	// CategoryDataIntegrity represents malformed or incomplete remote data.
	// The affected unit is logged and excluded; the run continues.
	CategoryDataIntegrity ErrorCategory = "data_integrity"
	// CategoryHalting represents conditions under which the run cannot continue.
	// Halting errors propagate out of the pipeline and fail the run.
	CategoryHalting ErrorCategory = "halting"
)

// CategorizedError represents an error with a pipeline category
type CategorizedError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// Transient errors

// NewTransientError creates a transient remote failure error
func NewTransientError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category: CategoryTransient,
		Code:     "REMOTE_FAILURE",
		Message:  fmt.Sprintf("remote call failed during %s", operation),
		Cause:    cause,
	}
}

// Data integrity errors

// NewDataIntegrityError creates a malformed data error
func NewDataIntegrityError(subject string, reason string) *CategorizedError {
	return &CategorizedError{
		Category: CategoryDataIntegrity,
		Code:     "DATA_INTEGRITY",
		Message:  fmt.Sprintf("malformed data for %s: %s", subject, reason),
	}
}

// Halting errors. These are the conditions that abort the run: nothing
// fetched, nothing eligible, nothing selected, or no durable backup.

// NewNoCampaignsError creates the halting error for an empty campaign fetch
func NewNoCampaignsError(cause error) *CategorizedError {
	return &CategorizedError{
		Category: CategoryHalting,
		Code:     "NO_CAMPAIGNS",
		Message:  "no campaigns fetched from SmartLead",
		Cause:    cause,
	}
}

// NewNoEligibleCampaignsError creates the halting error for an empty filter result
func NewNoEligibleCampaignsError(total int) *CategorizedError {
	return &CategorizedError{
		Category: CategoryHalting,
		Code:     "NO_ELIGIBLE_CAMPAIGNS",
		Message:  fmt.Sprintf("no eligible campaigns found for deletion (checked %d)", total),
	}
}

// NewEmptySelectionError creates the halting error for an empty selection
func NewEmptySelectionError(target int) *CategorizedError {
	return &CategorizedError{
		Category: CategoryHalting,
		Code:     "EMPTY_SELECTION",
		Message:  fmt.Sprintf("no campaigns selected for deletion (target %d leads)", target),
	}
}

// NewBackupFailedError creates the halting error for a failed or empty backup.
// Deletion must never start without a durable backup, so both an empty
// collection and a write failure abort the run.
func NewBackupFailedError(message string, cause error) *CategorizedError {
	return &CategorizedError{
		Category: CategoryHalting,
		Code:     "BACKUP_FAILED",
		Message:  message,
		Cause:    cause,
	}
}

// Predicates

// IsHalting determines if an error must abort the run
func IsHalting(err error) bool {
	return hasCategory(err, CategoryHalting)
}

// IsTransient determines if an error is a tolerated remote failure
func IsTransient(err error) bool {
	return hasCategory(err, CategoryTransient)
}

// IsDataIntegrity determines if an error reports malformed remote data
func IsDataIntegrity(err error) bool {
	return hasCategory(err, CategoryDataIntegrity)
}

func hasCategory(err error, category ErrorCategory) bool {
	var catErr *CategorizedError
	if stderrors.As(err, &catErr) {
		return catErr.Category == category
	}
	return false
}
