// Package persistence provides standardized error types for storage operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrFlowNotFound indicates no flow exists for the given identifier.
	ErrFlowNotFound = errors.New("flow not found")

	// ErrMissingFlowID indicates an update was attempted without a bound
	// record id.
	ErrMissingFlowID = errors.New("flow has no persisted id")

	// ErrUnavailable indicates a transport or storage failure. Callers treat
	// it as retryable; in-memory edits are never discarded because of it.
	ErrUnavailable = errors.New("storage unavailable")
)

// FlowError wraps flow storage errors with operation context.
type FlowError struct {
	Op     string // Operation being performed (e.g. "CreateFlow", "ListFlows")
	FlowID string // Flow ID if applicable
	Err    error  // Underlying error
}

func (e *FlowError) Error() string {
	if e.FlowID != "" {
		return fmt.Sprintf("%s failed for flow %s: %v", e.Op, e.FlowID, e.Err)
	}

	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

func (e *FlowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsFlowNotFound checks if an error indicates a missing flow record.
func IsFlowNotFound(err error) bool {
	return errors.Is(err, ErrFlowNotFound)
}

// IsUnavailable checks if an error indicates a retryable transport failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
