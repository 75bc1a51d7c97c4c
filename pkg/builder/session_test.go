package builder_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatforge/chatforge/pkg/builder"
	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/models"
	"github.com/chatforge/chatforge/pkg/persistence/file"
	"github.com/chatforge/chatforge/pkg/services"
	"github.com/chatforge/chatforge/pkg/templates"
)

func newTestSession(t *testing.T) *builder.Session {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	persistence := file.NewPersistence(t.TempDir())
	t.Cleanup(func() { _ = persistence.Close(context.Background()) })

	c := catalog.New()
	flows := services.NewFlow(persistence, c, nil, logger)

	return builder.NewSession(flows, templates.NewLibrary(), c, "user-1", logger)
}

func TestSession_StartsEmpty(t *testing.T) {
	session := newTestSession(t)

	assert.Equal(t, builder.StateEmpty, session.State())
	assert.Empty(t, session.Name())
	assert.True(t, session.Origin().IsZero())

	nodes, edges := session.Snapshot()
	require.Len(t, nodes, 1)
	assert.Equal(t, models.KindStart, nodes[0].Type)
	assert.Empty(t, edges)
	assert.Equal(t, []string{"hello", "help"}, session.Keywords())
}

func TestSession_EditingTransitions(t *testing.T) {
	session := newTestSession(t)

	node, err := session.AddNode(models.KindMessage, "Greeting")
	require.NoError(t, err)
	assert.Equal(t, builder.StateEditing, session.State())
	assert.Equal(t, "Greeting", node.Data.Label)

	require.NoError(t, session.AddKeyword("pricing"))
	assert.Contains(t, session.Keywords(), "pricing")

	require.NoError(t, session.SetName("Support Bot"))
	assert.Equal(t, "Support Bot", session.Name())
}

func TestSession_NewFlowDiscardsEdits(t *testing.T) {
	session := newTestSession(t)

	_, err := session.AddNode(models.KindMessage, "Greeting")
	require.NoError(t, err)
	require.NoError(t, session.SetName("Scratch"))
	require.NoError(t, session.AddKeyword("pricing"))

	require.NoError(t, session.NewFlow())

	assert.Equal(t, builder.StateEmpty, session.State())
	assert.Empty(t, session.Name())
	assert.True(t, session.Origin().IsZero())

	nodes, _ := session.Snapshot()
	assert.Len(t, nodes, 1)
	assert.Equal(t, []string{"hello", "help"}, session.Keywords())
}

func TestSession_LoadBuiltInTemplate(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	err := session.LoadTemplate(ctx, models.BuiltInTemplate(templates.SupportFlow))
	require.NoError(t, err)

	assert.Equal(t, builder.StateEditing, session.State())
	assert.Equal(t, "Support Flow", session.Name())

	id, ok := session.Origin().BuiltinID()
	require.True(t, ok)
	assert.Equal(t, templates.SupportFlow, id)

	nodes, edges := session.Snapshot()
	assert.Len(t, nodes, 5)
	assert.Len(t, edges, 4)
}

func TestSession_LoadUnknownTemplate(t *testing.T) {
	session := newTestSession(t)

	_, err := session.AddNode(models.KindMessage, "Keep Me")
	require.NoError(t, err)

	err = session.LoadTemplate(context.Background(), models.BuiltInTemplate("no-such-template"))
	require.ErrorIs(t, err, templates.ErrUnknownTemplate)

	// The canvas is untouched and the session stays editable.
	assert.Equal(t, builder.StateEditing, session.State())

	nodes, _ := session.Snapshot()
	assert.Len(t, nodes, 2)
}

func TestSession_SaveCreatesThenUpdates(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.LoadTemplate(ctx, models.BuiltInTemplate(templates.WelcomeFlow)))
	require.NoError(t, session.SetName("My Welcome Bot"))

	created, err := session.Save(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, builder.StateSaved, session.State())

	// The origin flips from the built-in template to the persisted record.
	savedID, ok := session.Origin().SavedID()
	require.True(t, ok)
	assert.Equal(t, created.ID, savedID)

	require.NoError(t, session.AddKeyword("welcome"))
	assert.Equal(t, builder.StateEditing, session.State())

	updated, err := session.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	flows, err := session.Clone(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, flows.ID)
	assert.Equal(t, "My Welcome Bot (Clone)", flows.Name)
}

func TestSession_SaveValidationLeavesEditsIntact(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	_, err := session.AddNode(models.KindMessage, "Greeting")
	require.NoError(t, err)

	// No name yet: the save fails but nothing is lost.
	_, err = session.Save(ctx)
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
	assert.Equal(t, builder.StateEditing, session.State())

	nodes, _ := session.Snapshot()
	assert.Len(t, nodes, 2)
}

func TestSession_CloneRequiresSavedFlow(t *testing.T) {
	session := newTestSession(t)

	_, err := session.Clone(context.Background())
	require.ErrorIs(t, err, builder.ErrNotPersisted)
}

func TestSession_LoadSavedFlow(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.LoadTemplate(ctx, models.BuiltInTemplate(templates.FAQFlow)))
	require.NoError(t, session.SetName("FAQ Bot"))

	saved, err := session.Save(ctx)
	require.NoError(t, err)

	cloned, err := session.CloneSaved(ctx, saved.ID)
	require.NoError(t, err)
	assert.NotEqual(t, saved.ID, cloned.ID)

	// Start over, then reload the persisted flow verbatim.
	require.NoError(t, session.NewFlow())

	err = session.LoadTemplate(ctx, models.SavedFlowRef(saved.ID))
	require.NoError(t, err)
	assert.Equal(t, "FAQ Bot", session.Name())

	nodes, _ := session.Snapshot()
	ids := make([]string, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.ID)
	}

	assert.Contains(t, ids, "keywordTrigger-1")
}
