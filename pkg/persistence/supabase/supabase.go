// Package supabase provides hosted persistence for flows on a Supabase
// project: a flows table scoped per operator, a list RPC, and a Redis-backed
// last-known-good cache so the gallery never comes up empty on a transport
// failure.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/chatforge/chatforge/pkg/models"
	"github.com/chatforge/chatforge/pkg/persistence"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const (
	flowsTable   = "flows"
	listFlowsRPC = "list_flows_for_user"

	cacheKeyPrefix = "chatforge:flows:"
	cacheTTL       = 10 * time.Minute
)

// Persistence implements persistence.Persistence against Supabase. The Redis
// client is optional; without it the list fallback chain ends at the direct
// table query.
type Persistence struct {
	client *supa.Client
	cache  *redis.Client
	logger *slog.Logger
}

// NewPersistence creates a Supabase-backed store.
func NewPersistence(projectURL, serviceKey string, cache *redis.Client, logger *slog.Logger) (*Persistence, error) {
	client, err := supa.NewClient(projectURL, serviceKey, nil)
	if err != nil {
		return nil, &persistence.FlowError{Op: "NewPersistence", Err: fmt.Errorf("%w: %w", persistence.ErrUnavailable, err)}
	}

	return &Persistence{
		client: client,
		cache:  cache,
		logger: logger.With("module", "supabase-persistence"),
	}, nil
}

func (p *Persistence) Close(ctx context.Context) error {
	if p.cache != nil {
		return p.cache.Close()
	}

	return nil
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	_, _, err := p.client.From(flowsTable).Select("id", "", false).Limit(1, "").Execute()
	if err != nil {
		return &persistence.FlowError{Op: "HealthCheck", Err: fmt.Errorf("%w: %w", persistence.ErrUnavailable, err)}
	}

	return nil
}

// ListFlows resolves the gallery in three stages: the list RPC, then a direct
// table query ordered newest-first, then the cached copy of the last good
// answer. Both remote paths yield the same record shape.
func (p *Persistence) ListFlows(ctx context.Context, ownerID string) ([]*models.Flow, error) {
	flows, rpcErr := p.listViaRPC(ownerID)
	if rpcErr == nil {
		p.cacheFlows(ctx, ownerID, flows)

		return flows, nil
	}

	p.logger.WarnContext(ctx, "list RPC failed, falling back to table query", "error", rpcErr)

	flows, queryErr := p.listViaTable(ownerID)
	if queryErr == nil {
		p.cacheFlows(ctx, ownerID, flows)

		return flows, nil
	}

	p.logger.WarnContext(ctx, "table query failed, serving cached flows", "error", queryErr)

	if cached, ok := p.cachedFlows(ctx, ownerID); ok {
		return cached, nil
	}

	return nil, &persistence.FlowError{Op: "ListFlows", Err: fmt.Errorf("%w: %w", persistence.ErrUnavailable, queryErr)}
}

func (p *Persistence) listViaRPC(ownerID string) ([]*models.Flow, error) {
	raw := p.client.Rpc(listFlowsRPC, "", map[string]any{"p_user_id": ownerID})
	if raw == "" {
		return nil, fmt.Errorf("rpc %s returned no data", listFlowsRPC)
	}

	var flows []*models.Flow
	if err := json.Unmarshal([]byte(raw), &flows); err != nil {
		return nil, fmt.Errorf("rpc %s: %w", listFlowsRPC, err)
	}

	return flows, nil
}

func (p *Persistence) listViaTable(ownerID string) ([]*models.Flow, error) {
	var flows []*models.Flow

	_, err := p.client.From(flowsTable).
		Select("*", "", false).
		Eq("user_id", ownerID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&flows)
	if err != nil {
		return nil, err
	}

	return flows, nil
}

func (p *Persistence) FlowByID(ctx context.Context, id string) (*models.Flow, error) {
	var flows []*models.Flow

	_, err := p.client.From(flowsTable).
		Select("*", "", false).
		Eq("id", id).
		Limit(1, "").
		ExecuteTo(&flows)
	if err != nil {
		return nil, &persistence.FlowError{Op: "FlowByID", FlowID: id, Err: fmt.Errorf("%w: %w", persistence.ErrUnavailable, err)}
	}

	if len(flows) == 0 {
		return nil, &persistence.FlowError{Op: "FlowByID", FlowID: id, Err: persistence.ErrFlowNotFound}
	}

	return flows[0], nil
}

// flowInsert is the create payload: id and timestamps are server-assigned.
type flowInsert struct {
	Name     string          `json:"name"`
	FlowData models.FlowData `json:"flow_data"`
	Keywords []string        `json:"keywords"`
	UserID   string          `json:"user_id"`
}

// flowUpdate is the update payload, scoped by id through the query filter.
type flowUpdate struct {
	Name      string          `json:"name"`
	FlowData  models.FlowData `json:"flow_data"`
	Keywords  []string        `json:"keywords"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (p *Persistence) CreateFlow(ctx context.Context, flow *models.Flow) (*models.Flow, error) {
	payload := flowInsert{
		Name:     flow.Name,
		FlowData: flow.FlowData,
		Keywords: flow.Keywords,
		UserID:   flow.UserID,
	}

	var inserted []*models.Flow

	_, err := p.client.From(flowsTable).
		Insert(payload, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return nil, &persistence.FlowError{Op: "CreateFlow", Err: fmt.Errorf("%w: %w", persistence.ErrUnavailable, err)}
	}

	if len(inserted) == 0 {
		return nil, &persistence.FlowError{Op: "CreateFlow", Err: fmt.Errorf("%w: insert returned no record", persistence.ErrUnavailable)}
	}

	p.invalidateCache(ctx, flow.UserID)

	return inserted[0], nil
}

func (p *Persistence) UpdateFlow(ctx context.Context, flow *models.Flow) (*models.Flow, error) {
	if flow.ID == "" {
		return nil, &persistence.FlowError{Op: "UpdateFlow", Err: persistence.ErrMissingFlowID}
	}

	payload := flowUpdate{
		Name:      flow.Name,
		FlowData:  flow.FlowData,
		Keywords:  flow.Keywords,
		UpdatedAt: time.Now().UTC(),
	}

	var updated []*models.Flow

	_, err := p.client.From(flowsTable).
		Update(payload, "representation", "").
		Eq("id", flow.ID).
		ExecuteTo(&updated)
	if err != nil {
		return nil, &persistence.FlowError{Op: "UpdateFlow", FlowID: flow.ID, Err: fmt.Errorf("%w: %w", persistence.ErrUnavailable, err)}
	}

	if len(updated) == 0 {
		return nil, &persistence.FlowError{Op: "UpdateFlow", FlowID: flow.ID, Err: persistence.ErrFlowNotFound}
	}

	p.invalidateCache(ctx, flow.UserID)

	return updated[0], nil
}

func (p *Persistence) DeleteFlow(ctx context.Context, id string) error {
	_, _, err := p.client.From(flowsTable).
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return &persistence.FlowError{Op: "DeleteFlow", FlowID: id, Err: fmt.Errorf("%w: %w", persistence.ErrUnavailable, err)}
	}

	return nil
}

func (p *Persistence) cacheFlows(ctx context.Context, ownerID string, flows []*models.Flow) {
	if p.cache == nil {
		return
	}

	raw, err := json.Marshal(flows)
	if err != nil {
		return
	}

	if err := p.cache.Set(ctx, cacheKeyPrefix+ownerID, raw, cacheTTL).Err(); err != nil {
		p.logger.DebugContext(ctx, "flow list cache write failed", "error", err)
	}
}

func (p *Persistence) cachedFlows(ctx context.Context, ownerID string) ([]*models.Flow, bool) {
	if p.cache == nil {
		return nil, false
	}

	raw, err := p.cache.Get(ctx, cacheKeyPrefix+ownerID).Bytes()
	if err != nil {
		return nil, false
	}

	var flows []*models.Flow
	if err := json.Unmarshal(raw, &flows); err != nil {
		return nil, false
	}

	return flows, true
}

func (p *Persistence) invalidateCache(ctx context.Context, ownerID string) {
	if p.cache == nil {
		return
	}

	if err := p.cache.Del(ctx, cacheKeyPrefix+ownerID).Err(); err != nil {
		p.logger.DebugContext(ctx, "flow list cache invalidation failed", "error", err)
	}
}
