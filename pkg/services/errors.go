// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"

	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/graph"
	"github.com/chatforge/chatforge/pkg/keywords"
	"github.com/chatforge/chatforge/pkg/persistence"
	"github.com/chatforge/chatforge/pkg/templates"
)

// Business logic errors. These indicate client mistakes (4xx responses) and
// are always recoverable: the in-memory graph is never discarded over them.
var (
	ErrFlowNil       = errors.New("flow cannot be nil")
	ErrEmptyFlowName = errors.New("flow name is required")
	ErrEmptyOwnerID  = errors.New("owner ID cannot be empty")

	// ErrNoStartNode indicates a save of a flow with no entry point.
	ErrNoStartNode = errors.New("flow must contain a start node")

	// ErrBranchMismatch indicates a branching node whose outgoing edges do
	// not line up with the branches its payload declares.
	ErrBranchMismatch = errors.New("branching node has inconsistent outgoing edges")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should
// surface as HTTP 400 and a dismissible notification.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrFlowNil) ||
		errors.Is(err, ErrEmptyFlowName) ||
		errors.Is(err, ErrEmptyOwnerID) ||
		errors.Is(err, ErrNoStartNode) ||
		errors.Is(err, ErrBranchMismatch) ||
		errors.Is(err, catalog.ErrUnknownNodeKind) ||
		errors.Is(err, catalog.ErrInvalidNodeData) ||
		errors.Is(err, graph.ErrDanglingEdge) ||
		errors.Is(err, keywords.ErrEmptyKeyword) ||
		errors.Is(err, keywords.ErrDuplicateKeyword) ||
		errors.Is(err, templates.ErrUnknownTemplate)
}

// IsTransportError checks if an error is a retryable storage failure.
func IsTransportError(err error) bool {
	return persistence.IsUnavailable(err)
}
