// Package graph provides standardized error types for graph mutations.
package graph

import (
	"errors"
	"fmt"
)

// Standard graph error types shared by all store operations.
var (
	// ErrNodeNotFound indicates an operation referenced a node id that is not
	// present in the store.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound indicates an edge id that is not present in the store.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrDuplicateEdge indicates a connection that already exists between the
	// same source and target.
	ErrDuplicateEdge = errors.New("edge already exists")

	// ErrDanglingEdge indicates an edge whose source or target does not name
	// an existing node. Internal mutations can never produce one; it guards
	// whole-graph replacement with externally supplied data.
	ErrDanglingEdge = errors.New("edge references a missing node")
)

// Error wraps graph mutation errors with operation context.
type Error struct {
	Op     string // Operation being performed (e.g. "Connect", "ReplaceAll")
	NodeID string // Node ID if applicable
	EdgeID string // Edge ID if applicable
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	switch {
	case e.NodeID != "":
		return fmt.Sprintf("%s failed for node %s: %v", e.Op, e.NodeID, e.Err)
	case e.EdgeID != "":
		return fmt.Sprintf("%s failed for edge %s: %v", e.Op, e.EdgeID, e.Err)
	default:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsNodeNotFound checks if an error indicates a missing node.
func IsNodeNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound)
}

// IsDanglingEdge checks if an error indicates a broken edge reference.
func IsDanglingEdge(err error) bool {
	return errors.Is(err, ErrDanglingEdge)
}
