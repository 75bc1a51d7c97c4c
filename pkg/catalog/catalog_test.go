package catalog_test

import (
	"testing"

	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Lookup_AllKindsRegistered(t *testing.T) {
	c := catalog.New()

	for _, kind := range models.Kinds() {
		def, err := c.Lookup(kind)
		require.NoError(t, err, "kind %q should be registered", kind)
		assert.Equal(t, kind, def.Kind)
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.DefaultData.Label)
	}

	assert.Len(t, c.Definitions(), len(models.Kinds()))
}

func TestCatalog_Lookup_UnknownKind(t *testing.T) {
	c := catalog.New()

	_, err := c.Lookup(models.NodeKind("carousel"))
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnknownNodeKind)
}

func TestCatalog_ValidateData(t *testing.T) {
	t.Parallel()

	c := catalog.New()

	tests := []struct {
		name    string
		kind    models.NodeKind
		data    models.NodeData
		wantErr error
	}{
		{
			name: "valid message",
			kind: models.KindMessage,
			data: models.NodeData{Label: "Welcome", Text: "Hello!"},
		},
		{
			name: "valid menu with options",
			kind: models.KindMenu,
			data: models.NodeData{Label: "Main Menu", Options: []string{"Sales", "Support"}},
		},
		{
			name:    "missing label",
			kind:    models.KindMessage,
			data:    models.NodeData{Text: "Hello!"},
			wantErr: catalog.ErrInvalidNodeData,
		},
		{
			name:    "empty menu option",
			kind:    models.KindMenu,
			data:    models.NodeData{Label: "Menu", Options: []string{"Sales", ""}},
			wantErr: catalog.ErrInvalidNodeData,
		},
		{
			name:    "unknown kind",
			kind:    models.NodeKind("carousel"),
			data:    models.NodeData{Label: "x"},
			wantErr: catalog.ErrUnknownNodeKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := c.ValidateData(tt.kind, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalog_DeclaredBranches(t *testing.T) {
	c := catalog.New()

	menu := &models.FlowNode{
		Type: models.KindMenu,
		Data: models.NodeData{Label: "Menu", Options: []string{"A", "B", "C"}},
	}
	condition := &models.FlowNode{Type: models.KindCondition, Data: models.NodeData{Label: "Route"}}
	trigger := &models.FlowNode{Type: models.KindKeywordTrigger, Data: models.NodeData{Label: "Match"}}
	message := &models.FlowNode{Type: models.KindMessage, Data: models.NodeData{Label: "Hi"}}

	assert.Equal(t, 3, c.DeclaredBranches(menu))
	assert.Equal(t, 2, c.DeclaredBranches(condition))
	assert.Equal(t, 2, c.DeclaredBranches(trigger))
	assert.Equal(t, 0, c.DeclaredBranches(message))

	assert.True(t, c.Branching(models.KindMenu))
	assert.True(t, c.Branching(models.KindCondition))
	assert.True(t, c.Branching(models.KindKeywordTrigger))
	assert.False(t, c.Branching(models.KindStart))
	assert.False(t, c.Branching(models.KindAIAssistant))
}
