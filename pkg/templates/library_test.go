package templates_test

import (
	"testing"

	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/models"
	"github.com/chatforge/chatforge/pkg/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_List(t *testing.T) {
	l := templates.NewLibrary()

	entries := l.List()
	require.Len(t, entries, 4)

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Description)
		assert.NotEmpty(t, e.Icon)
	}

	assert.Equal(t, []string{
		templates.WelcomeFlow,
		templates.SupportFlow,
		templates.SalesFlow,
		templates.FAQFlow,
	}, ids)
}

func TestLibrary_Materialize_UnknownID(t *testing.T) {
	l := templates.NewLibrary()

	_, err := l.Materialize("ghost-flow")
	require.Error(t, err)
	assert.ErrorIs(t, err, templates.ErrUnknownTemplate)
}

func TestLibrary_Materialize_SupportFlow(t *testing.T) {
	l := templates.NewLibrary()

	flow, err := l.Materialize(templates.SupportFlow)
	require.NoError(t, err)

	assert.Equal(t, "Support Flow", flow.Name)
	assert.Empty(t, flow.ID, "a materialized template is unpersisted")

	require.Len(t, flow.FlowData.Nodes, 5)

	wantIDs := []string{"start-1", "message-1", "condition-1", "aiAssistant-1", "message-2"}
	for i, node := range flow.FlowData.Nodes {
		assert.Equal(t, wantIDs[i], node.ID)
	}

	require.Len(t, flow.FlowData.Edges, 4)

	branchLabels := map[string]string{}

	for _, edge := range flow.FlowData.Edges {
		if edge.Source == "condition-1" {
			branchLabels[edge.Label] = edge.Target
		}
	}

	assert.Equal(t, map[string]string{
		"Common Issue":  "aiAssistant-1",
		"Complex Issue": "message-2",
	}, branchLabels)
}

func TestLibrary_Materialize_WelcomeFlowLinear(t *testing.T) {
	l := templates.NewLibrary()

	flow, err := l.Materialize(templates.WelcomeFlow)
	require.NoError(t, err)

	require.Len(t, flow.FlowData.Nodes, 3)
	assert.Equal(t, models.KindStart, flow.FlowData.Nodes[0].Type)
	assert.Equal(t, models.KindMessage, flow.FlowData.Nodes[1].Type)
	assert.Equal(t, models.KindMenu, flow.FlowData.Nodes[2].Type)
	require.Len(t, flow.FlowData.Edges, 2)

	for _, edge := range flow.FlowData.Edges {
		assert.Empty(t, edge.Label)
	}
}

func TestLibrary_Materialize_SalesFlowLinear(t *testing.T) {
	l := templates.NewLibrary()

	flow, err := l.Materialize(templates.SalesFlow)
	require.NoError(t, err)

	require.Len(t, flow.FlowData.Nodes, 5)
	require.Len(t, flow.FlowData.Edges, 4)
	assert.Equal(t, models.KindAIAssistant, flow.FlowData.Nodes[4].Type)
}

func TestLibrary_Materialize_FAQFlowBranches(t *testing.T) {
	l := templates.NewLibrary()

	flow, err := l.Materialize(templates.FAQFlow)
	require.NoError(t, err)

	require.Len(t, flow.FlowData.Nodes, 4)

	labels := map[string]bool{}

	for _, edge := range flow.FlowData.Edges {
		if edge.Source == "keywordTrigger-1" {
			labels[edge.Label] = true
		}
	}

	assert.True(t, labels["Keyword Match"])
	assert.True(t, labels["No Match"])
}

func TestLibrary_Materialize_FreshCopies(t *testing.T) {
	l := templates.NewLibrary()

	first, err := l.Materialize(templates.WelcomeFlow)
	require.NoError(t, err)
	second, err := l.Materialize(templates.WelcomeFlow)
	require.NoError(t, err)

	first.FlowData.Nodes[0].Data.Label = "Mutated"
	first.Keywords[0] = "mutated"

	assert.Equal(t, "Start", second.FlowData.Nodes[0].Data.Label)
	assert.NotEqual(t, "mutated", second.Keywords[0])
}

func TestLibrary_BuiltinsPassCatalogValidation(t *testing.T) {
	l := templates.NewLibrary()
	c := catalog.New()

	for _, entry := range l.List() {
		flow, err := l.Materialize(entry.ID)
		require.NoError(t, err)

		for _, node := range flow.FlowData.Nodes {
			assert.NoError(t, c.ValidateData(node.Type, node.Data),
				"template %s node %s fails its schema", entry.ID, node.ID)
		}
	}
}

func TestFromSaved_RoundTrip(t *testing.T) {
	saved := &models.Flow{
		ID:   "rec-42",
		Name: "My Custom Bot",
		FlowData: models.FlowData{
			Nodes: []*models.FlowNode{
				{ID: "start-1", Type: models.KindStart, Data: models.NodeData{Label: "Start"}},
				{ID: "message-1", Type: models.KindMessage, Data: models.NodeData{Label: "Hi", Text: "Hello!"}},
			},
			Edges: []*models.Edge{
				{ID: "estart-1-message-1", Source: "start-1", Target: "message-1", Animated: true},
			},
		},
		Keywords: []string{"custom", "bot"},
	}

	got := templates.FromSaved(saved)

	// Verbatim: same ids, same name, same keywords, no regeneration.
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.Name, got.Name)
	require.Len(t, got.FlowData.Nodes, 2)
	assert.Equal(t, "message-1", got.FlowData.Nodes[1].ID)
	assert.Equal(t, saved.Keywords, got.Keywords)

	// But decoupled: mutating the materialization never touches the record.
	got.FlowData.Nodes[0].Data.Label = "Mutated"
	got.Keywords[0] = "mutated"
	assert.Equal(t, "Start", saved.FlowData.Nodes[0].Data.Label)
	assert.Equal(t, "custom", saved.Keywords[0])
}
