// Package services implements the persistence gateway for flows: save with
// create-vs-update disambiguation, listing, cloning and deletion over the
// storage boundary, with lifecycle events published on success.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/eventbus"
	"github.com/chatforge/chatforge/pkg/events"
	"github.com/chatforge/chatforge/pkg/graph"
	"github.com/chatforge/chatforge/pkg/models"
	"github.com/chatforge/chatforge/pkg/otelhelper"
	"github.com/chatforge/chatforge/pkg/persistence"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const cloneSuffix = " (Clone)"

// Flow is the flow gateway service.
type Flow struct {
	persistence persistence.Persistence
	catalog     *catalog.Catalog
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewFlow creates a new flow service. The event bus may be nil in tests that
// do not observe lifecycle events.
func NewFlow(p persistence.Persistence, c *catalog.Catalog, bus eventbus.EventBus, logger *slog.Logger) *Flow {
	return &Flow{
		persistence: p,
		catalog:     c,
		eventBus:    bus,
		tracer:      otel.Tracer("chatforge.services.flow"),
		logger:      logger.With("module", "flow-service"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (f *Flow) HealthCheck(ctx context.Context) (string, bool) {
	if f.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := f.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// SaveRequest carries everything a save needs. Origin decides the write mode:
// a Saved ref updates that record, anything else (built-in template or a
// from-scratch flow) creates a new one.
type SaveRequest struct {
	Name     string
	Nodes    []*models.FlowNode
	Edges    []*models.Edge
	Keywords []string
	OwnerID  string `validate:"required"`
	Origin   models.TemplateRef
}

// Save validates and persists a flow draft, returning the stored record.
func (f *Flow) Save(ctx context.Context, req SaveRequest) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flow.save",
		attribute.String(otelhelper.FlowNameKey, req.Name),
		attribute.String(otelhelper.TemplateRefKey, req.Origin.String()),
	)
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, &ServiceError{Op: "Save", Err: ErrEmptyFlowName}
	}

	if req.OwnerID == "" {
		return nil, &ServiceError{Op: "Save", Err: ErrEmptyOwnerID}
	}

	draft := &models.Flow{
		Name:     req.Name,
		FlowData: models.FlowData{Nodes: req.Nodes, Edges: req.Edges},
		Keywords: req.Keywords,
		UserID:   req.OwnerID,
	}

	if err := f.validateGraph(draft); err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if flowID, ok := req.Origin.SavedID(); ok {
		return f.update(ctx, span, draft, flowID)
	}

	return f.create(ctx, span, draft, req.Origin)
}

func (f *Flow) create(ctx context.Context, span trace.Span, draft *models.Flow, origin models.TemplateRef) (*models.Flow, error) {
	saved, err := f.persistence.CreateFlow(ctx, draft)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.FlowIDKey, saved.ID))
	f.logger.InfoContext(ctx, "flow created", "flow_id", saved.ID, "name", saved.Name)

	templateID, _ := origin.BuiltinID()
	f.publish(ctx, events.FlowCreated{
		BaseEvent: f.baseEvent(events.FlowCreatedEvent, saved),
		Name:      saved.Name,
		Template:  templateID,
	})

	return saved, nil
}

func (f *Flow) update(ctx context.Context, span trace.Span, draft *models.Flow, flowID string) (*models.Flow, error) {
	draft.ID = flowID
	span.SetAttributes(attribute.String(otelhelper.FlowIDKey, flowID))

	saved, err := f.persistence.UpdateFlow(ctx, draft)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	f.logger.InfoContext(ctx, "flow updated", "flow_id", saved.ID, "name", saved.Name)

	f.publish(ctx, events.FlowUpdated{
		BaseEvent: f.baseEvent(events.FlowUpdatedEvent, saved),
		Name:      saved.Name,
		UpdatedAt: saved.UpdatedAt,
	})

	return saved, nil
}

// List returns all flows owned by the operator, newest-first. Transport
// fallback is the adapter's concern; by the time an error reaches here every
// degraded path has been exhausted.
func (f *Flow) List(ctx context.Context, ownerID string) ([]*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flow.list")
	defer span.End()

	if ownerID == "" {
		return nil, &ServiceError{Op: "List", Err: ErrEmptyOwnerID}
	}

	flows, err := f.persistence.ListFlows(ctx, ownerID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return flows, nil
}

// FetchByID returns one flow record.
func (f *Flow) FetchByID(ctx context.Context, id string) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flow.fetch",
		attribute.String(otelhelper.FlowIDKey, id))
	defer span.End()

	flow, err := f.persistence.FlowByID(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return flow, nil
}

// Clone fetches a flow and persists a structural copy renamed
// "{name} (Clone)". A clone is always a create, never an update, so the
// source record is untouched regardless of where it came from.
func (f *Flow) Clone(ctx context.Context, flowID string) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flow.clone",
		attribute.String(otelhelper.FlowIDKey, flowID))
	defer span.End()

	source, err := f.persistence.FlowByID(ctx, flowID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	draft := source.Clone()
	draft.ID = ""
	draft.Name = source.Name + cloneSuffix

	saved, err := f.persistence.CreateFlow(ctx, draft)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	f.logger.InfoContext(ctx, "flow cloned", "source_flow_id", flowID, "flow_id", saved.ID)

	f.publish(ctx, events.FlowCloned{
		BaseEvent:    f.baseEvent(events.FlowClonedEvent, saved),
		SourceFlowID: flowID,
		Name:         saved.Name,
	})

	return saved, nil
}

// Delete removes a flow record.
func (f *Flow) Delete(ctx context.Context, id string) error {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flow.delete",
		attribute.String(otelhelper.FlowIDKey, id))
	defer span.End()

	flow, err := f.persistence.FlowByID(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	if err := f.persistence.DeleteFlow(ctx, id); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	f.publish(ctx, events.FlowDeleted{BaseEvent: f.baseEvent(events.FlowDeletedEvent, flow)})

	return nil
}

// validateGraph enforces the save-time invariants: referential integrity,
// at least one start node, payloads matching their kind's schema, and
// branching nodes whose wired edges match their declared branches. A
// branching node with no outgoing edges is a dead end, not an error, and a
// single unlabeled outgoing edge is linear pass-through (the canvas wires
// exactly that shape when a node is appended), so only labeled fan-out is
// held to the declared count.
func (f *Flow) validateGraph(flow *models.Flow) error {
	ids := make(map[string]struct{}, len(flow.FlowData.Nodes))
	outgoing := make(map[string]int)
	labeled := make(map[string]int)
	hasStart := false

	for _, node := range flow.FlowData.Nodes {
		ids[node.ID] = struct{}{}

		if node.Type == models.KindStart {
			hasStart = true
		}

		if err := f.catalog.ValidateData(node.Type, node.Data); err != nil {
			return &ServiceError{Op: "Save", Message: "node " + node.ID, Err: err}
		}
	}

	if !hasStart {
		return &ServiceError{Op: "Save", Err: ErrNoStartNode}
	}

	for _, edge := range flow.FlowData.Edges {
		if _, ok := ids[edge.Source]; !ok {
			return &ServiceError{Op: "Save", Message: "edge " + edge.ID, Err: graph.ErrDanglingEdge}
		}

		if _, ok := ids[edge.Target]; !ok {
			return &ServiceError{Op: "Save", Message: "edge " + edge.ID, Err: graph.ErrDanglingEdge}
		}

		outgoing[edge.Source]++
		if edge.Label != "" {
			labeled[edge.Source]++
		}
	}

	for _, node := range flow.FlowData.Nodes {
		if !f.catalog.Branching(node.Type) {
			continue
		}

		wired := outgoing[node.ID]
		declared := f.catalog.DeclaredBranches(node)

		if wired == 0 {
			continue
		}

		if wired == 1 && labeled[node.ID] == 0 {
			continue
		}

		if wired != declared {
			return &ServiceError{
				Op:      "Save",
				Message: fmt.Sprintf("node %s declares %d branches but has %d outgoing edges", node.ID, declared, wired),
				Err:     ErrBranchMismatch,
			}
		}
	}

	return nil
}

func (f *Flow) baseEvent(eventType events.EventType, flow *models.Flow) events.BaseEvent {
	id := ""
	if f.eventBus != nil {
		id = f.eventBus.GenerateID()
	}

	return events.BaseEvent{
		ID:        id,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		FlowID:    flow.ID,
		OwnerID:   flow.UserID,
	}
}

// publish is best-effort: a notification failure never fails the save.
func (f *Flow) publish(ctx context.Context, event eventbus.Event) {
	if f.eventBus == nil {
		return
	}

	if err := f.eventBus.Publish(ctx, string(event.GetType()), event); err != nil {
		f.logger.WarnContext(ctx, "failed to publish flow event", "event_type", event.GetType(), "error", err)
	}
}
