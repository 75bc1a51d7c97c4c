// Package persistence provides the data storage abstraction layer for flows.
package persistence

import (
	"context"

	"github.com/chatforge/chatforge/pkg/models"
)

type Persistence interface {
	// ListFlows returns all flows owned by the operator, newest-first by
	// creation time.
	ListFlows(ctx context.Context, ownerID string) ([]*models.Flow, error)

	// FlowByID returns one flow, or ErrFlowNotFound.
	FlowByID(ctx context.Context, id string) (*models.Flow, error)

	// CreateFlow inserts a new record. The store assigns the id and both
	// timestamps; the full record is returned.
	CreateFlow(ctx context.Context, flow *models.Flow) (*models.Flow, error)

	// UpdateFlow overwrites the record with the flow's id, preserving
	// created_at and advancing updated_at. The full record is returned.
	UpdateFlow(ctx context.Context, flow *models.Flow) (*models.Flow, error)

	// DeleteFlow removes a record by id.
	DeleteFlow(ctx context.Context, id string) error

	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
