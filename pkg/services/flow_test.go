package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/eventbus"
	"github.com/chatforge/chatforge/pkg/events"
	"github.com/chatforge/chatforge/pkg/graph"
	"github.com/chatforge/chatforge/pkg/models"
	"github.com/chatforge/chatforge/pkg/persistence/file"
	"github.com/chatforge/chatforge/pkg/services"
	"github.com/chatforge/chatforge/pkg/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *services.Flow {
	t.Helper()

	p := file.NewPersistence(t.TempDir())

	return services.NewFlow(p, catalog.New(), nil, slog.Default())
}

func supportDraft(t *testing.T) (name string, nodes []*models.FlowNode, edges []*models.Edge, kws []string) {
	t.Helper()

	flow, err := templates.NewLibrary().Materialize(templates.SupportFlow)
	require.NoError(t, err)

	return flow.Name, flow.FlowData.Nodes, flow.FlowData.Edges, flow.Keywords
}

func TestFlow_Save_CreateThenUpdate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	name, nodes, edges, kws := supportDraft(t)

	// A flow materialized from a built-in template is never an update.
	created, err := svc.Save(ctx, services.SaveRequest{
		Name:     name,
		Nodes:    nodes,
		Edges:    edges,
		Keywords: kws,
		OwnerID:  "user-1",
		Origin:   models.BuiltInTemplate(templates.SupportFlow),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	time.Sleep(10 * time.Millisecond)

	// Saving again with the bound id is an update: same id, same record count,
	// advanced updated_at.
	updated, err := svc.Save(ctx, services.SaveRequest{
		Name:     name + " v2",
		Nodes:    nodes,
		Edges:    edges,
		Keywords: kws,
		OwnerID:  "user-1",
		Origin:   models.SavedFlowRef(created.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, name+" v2", updated.Name)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	flows, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, flows, 1)
}

func TestFlow_Save_FromScratchCreates(t *testing.T) {
	svc := setupService(t)

	name, nodes, edges, kws := supportDraft(t)

	saved, err := svc.Save(context.Background(), services.SaveRequest{
		Name:     name,
		Nodes:    nodes,
		Edges:    edges,
		Keywords: kws,
		OwnerID:  "user-1",
		// Zero Origin: a from-scratch flow.
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
}

func TestFlow_Save_ValidationErrors(t *testing.T) {
	t.Parallel()

	start := &models.FlowNode{ID: "start-1", Type: models.KindStart, Data: models.NodeData{Label: "Start"}}
	menu := &models.FlowNode{
		ID: "menu-1", Type: models.KindMenu,
		Data: models.NodeData{Label: "Menu", Options: []string{"A", "B", "C"}},
	}
	msg := &models.FlowNode{ID: "message-1", Type: models.KindMessage, Data: models.NodeData{Label: "Hi"}}
	msg2 := &models.FlowNode{ID: "message-3", Type: models.KindMessage, Data: models.NodeData{Label: "Bye"}}

	tests := []struct {
		name    string
		req     services.SaveRequest
		wantErr error
	}{
		{
			name:    "empty name",
			req:     services.SaveRequest{Name: "   ", OwnerID: "user-1", Nodes: []*models.FlowNode{start}},
			wantErr: services.ErrEmptyFlowName,
		},
		{
			name:    "missing owner",
			req:     services.SaveRequest{Name: "Bot", Nodes: []*models.FlowNode{start}},
			wantErr: services.ErrEmptyOwnerID,
		},
		{
			name:    "no start node",
			req:     services.SaveRequest{Name: "Bot", OwnerID: "user-1", Nodes: []*models.FlowNode{msg}},
			wantErr: services.ErrNoStartNode,
		},
		{
			name: "dangling edge",
			req: services.SaveRequest{
				Name: "Bot", OwnerID: "user-1",
				Nodes: []*models.FlowNode{start},
				Edges: []*models.Edge{{ID: "e1", Source: "start-1", Target: "ghost-1"}},
			},
			wantErr: graph.ErrDanglingEdge,
		},
		{
			name: "partially wired menu",
			req: services.SaveRequest{
				Name: "Bot", OwnerID: "user-1",
				Nodes: []*models.FlowNode{start, menu, msg, msg2},
				Edges: []*models.Edge{
					{ID: "e1", Source: "start-1", Target: "menu-1"},
					{ID: "e2", Source: "menu-1", Target: "message-1", Label: "A"},
					{ID: "e3", Source: "menu-1", Target: "message-3", Label: "B"},
				},
			},
			wantErr: services.ErrBranchMismatch,
		},
		{
			name: "invalid node payload",
			req: services.SaveRequest{
				Name: "Bot", OwnerID: "user-1",
				Nodes: []*models.FlowNode{
					start,
					{ID: "message-2", Type: models.KindMessage, Data: models.NodeData{}},
				},
			},
			wantErr: catalog.ErrInvalidNodeData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := setupService(t)

			_, err := svc.Save(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, services.IsValidationError(err), "want a validation-class error, got %v", err)
		})
	}
}

func TestFlow_Save_TerminalMenuIsAllowed(t *testing.T) {
	svc := setupService(t)

	// welcome-flow ends in a menu with no outgoing edges; that is a dead end
	// by construction and must still save.
	flow, err := templates.NewLibrary().Materialize(templates.WelcomeFlow)
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), services.SaveRequest{
		Name:     flow.Name,
		Nodes:    flow.FlowData.Nodes,
		Edges:    flow.FlowData.Edges,
		Keywords: flow.Keywords,
		OwnerID:  "user-1",
		Origin:   models.BuiltInTemplate(templates.WelcomeFlow),
	})
	assert.NoError(t, err)
}

func TestFlow_Save_EveryBuiltInTemplate(t *testing.T) {
	t.Parallel()

	// Every gallery template must come out of Materialize in a saveable
	// shape, including sales-flow, whose menu routes through a single
	// unlabeled pass-through edge instead of per-option branches.
	library := templates.NewLibrary()

	for _, tpl := range library.List() {
		t.Run(tpl.ID, func(t *testing.T) {
			t.Parallel()

			svc := setupService(t)

			flow, err := library.Materialize(tpl.ID)
			require.NoError(t, err)

			saved, err := svc.Save(context.Background(), services.SaveRequest{
				Name:     flow.Name,
				Nodes:    flow.FlowData.Nodes,
				Edges:    flow.FlowData.Edges,
				Keywords: flow.Keywords,
				OwnerID:  "user-1",
				Origin:   models.BuiltInTemplate(tpl.ID),
			})
			require.NoError(t, err)
			assert.NotEmpty(t, saved.ID)
		})
	}
}

func TestFlow_Save_AutoChainedBranchingNode(t *testing.T) {
	t.Parallel()

	// Appending nodes on the canvas chains each one to the last with an
	// unlabeled edge, so a condition node sitting mid-chain has exactly one
	// outgoing edge. That straight-line shape must save.
	store := graph.NewStore(catalog.New())

	_, err := store.AddNode(models.KindCondition, "Route")
	require.NoError(t, err)
	_, err = store.AddNode(models.KindMessage, "Reply")
	require.NoError(t, err)

	nodes, edges := store.Snapshot()
	svc := setupService(t)

	saved, err := svc.Save(context.Background(), services.SaveRequest{
		Name:    "Chained Bot",
		Nodes:   nodes,
		Edges:   edges,
		OwnerID: "user-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
}

func TestFlow_Clone(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	name, nodes, edges, kws := supportDraft(t)

	source, err := svc.Save(ctx, services.SaveRequest{
		Name: name, Nodes: nodes, Edges: edges, Keywords: kws,
		OwnerID: "user-1", Origin: models.BuiltInTemplate(templates.SupportFlow),
	})
	require.NoError(t, err)

	clone, err := svc.Clone(ctx, source.ID)
	require.NoError(t, err)

	assert.Equal(t, "Support Flow (Clone)", clone.Name)
	assert.NotEqual(t, source.ID, clone.ID)
	assert.Len(t, clone.FlowData.Nodes, len(source.FlowData.Nodes))

	// Cloning a persisted flow is still a create: two records now exist and
	// the source is untouched.
	flows, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, flows, 2)

	reloaded, err := svc.FetchByID(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, "Support Flow", reloaded.Name)
	assert.Equal(t, source.UpdatedAt, reloaded.UpdatedAt)
}

func TestFlow_List_NewestFirst(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	name, nodes, edges, kws := supportDraft(t)

	first, err := svc.Save(ctx, services.SaveRequest{
		Name: "First " + name, Nodes: nodes, Edges: edges, Keywords: kws, OwnerID: "user-1",
	})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	second, err := svc.Save(ctx, services.SaveRequest{
		Name: "Second " + name, Nodes: nodes, Edges: edges, Keywords: kws, OwnerID: "user-1",
	})
	require.NoError(t, err)

	flows, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, flows, 2)
	assert.Equal(t, second.ID, flows[0].ID)
	assert.Equal(t, first.ID, flows[1].ID)
}

func TestFlow_Delete(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	name, nodes, edges, kws := supportDraft(t)

	saved, err := svc.Save(ctx, services.SaveRequest{
		Name: name, Nodes: nodes, Edges: edges, Keywords: kws, OwnerID: "user-1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, saved.ID))

	flows, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, flows)
}

func TestFlow_Save_PublishesLifecycleEvents(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	bus := eventbus.NewWatermillEventBus(pubsub, pubsub)

	t.Cleanup(func() { _ = bus.Close() })

	svc := services.NewFlow(file.NewPersistence(t.TempDir()), catalog.New(), bus, slog.Default())

	received := make(chan *events.FlowCreated, 1)
	require.NoError(t, bus.Handle(events.FlowCreatedEvent, func(ctx context.Context, event any) error {
		created, ok := event.(*events.FlowCreated)
		require.True(t, ok)
		received <- created

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, bus.Subscribe(ctx))

	name, nodes, edges, kws := supportDraft(t)

	saved, err := svc.Save(ctx, services.SaveRequest{
		Name: name, Nodes: nodes, Edges: edges, Keywords: kws,
		OwnerID: "user-1", Origin: models.BuiltInTemplate(templates.SupportFlow),
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, saved.ID, event.FlowID)
		assert.Equal(t, templates.SupportFlow, event.Template)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for flow.created event")
	}
}
