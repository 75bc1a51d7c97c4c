// Package builder orchestrates one operator's editing session: the in-memory
// graph, the keyword registry, template materialization and the save path,
// behind an explicit state machine so conflicting actions (saving while a
// template loads, double-saving) are rejected instead of racing.
package builder

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/graph"
	"github.com/chatforge/chatforge/pkg/keywords"
	"github.com/chatforge/chatforge/pkg/models"
	"github.com/chatforge/chatforge/pkg/services"
	"github.com/chatforge/chatforge/pkg/templates"
)

// State is the lifecycle position of the editing session.
type State string

const (
	// StateEmpty is a fresh flow: one start node, seed keywords, no name.
	StateEmpty State = "empty"
	// StateEditing means the graph or keywords have been mutated.
	StateEditing State = "editing"
	// StateLoading wraps template/user-flow materialization; edits are
	// rejected until it completes.
	StateLoading State = "loading"
	// StateSaving wraps an outstanding persistence round-trip; a second save
	// during it would be a double-create.
	StateSaving State = "saving"
	// StateSaved means the current graph matches a persisted record.
	StateSaved State = "saved"
)

// ErrBusy indicates an action was rejected because a load or save is
// outstanding. Retryable once the session settles.
var ErrBusy = errors.New("another operation is in progress")

// ErrNotPersisted indicates an operation that needs a saved record (such as
// cloning the current flow) before the flow has ever been saved.
var ErrNotPersisted = errors.New("flow has not been saved yet")

// Session is one operator's builder. All methods are safe for concurrent use;
// conflicting operations fail fast with ErrBusy rather than queueing.
type Session struct {
	mu sync.Mutex

	flows   *services.Flow
	library *templates.Library

	store    *graph.Store
	keywords *keywords.Registry
	logger   *slog.Logger

	ownerID string
	name    string
	origin  models.TemplateRef
	state   State
}

// NewSession creates a session holding a fresh default flow.
func NewSession(flows *services.Flow, library *templates.Library, c *catalog.Catalog, ownerID string, logger *slog.Logger) *Session {
	return &Session{
		flows:    flows,
		library:  library,
		store:    graph.NewStore(c),
		keywords: keywords.NewRegistry(),
		logger:   logger.With("module", "builder", "owner_id", ownerID),
		ownerID:  ownerID,
		state:    StateEmpty,
	}
}

// NewFlow resets the session to a fresh default flow, discarding the current
// in-memory flow without persisting it. The operator saves first or loses
// the edits; there is no autosave.
func (s *Session) NewFlow() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSettled(); err != nil {
		return err
	}

	s.store.Reset()
	s.keywords.Reset()
	s.name = ""
	s.origin = models.TemplateRef{}
	s.state = StateEmpty

	return nil
}

// AddNode appends a node of the given kind to the canvas.
func (s *Session) AddNode(kind models.NodeKind, label string) (*models.FlowNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSettled(); err != nil {
		return nil, err
	}

	node, err := s.store.AddNode(kind, label)
	if err != nil {
		return nil, err
	}

	s.state = StateEditing

	return node, nil
}

// Connect wires an explicit edge between two nodes.
func (s *Session) Connect(sourceID, targetID, label string) (*models.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSettled(); err != nil {
		return nil, err
	}

	edge, err := s.store.Connect(sourceID, targetID, label)
	if err != nil {
		return nil, err
	}

	s.state = StateEditing

	return edge, nil
}

// RemoveNode deletes a node and its incident edges.
func (s *Session) RemoveNode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSettled(); err != nil {
		return err
	}

	if err := s.store.RemoveNode(id); err != nil {
		return err
	}

	s.state = StateEditing

	return nil
}

// RemoveEdge deletes an edge.
func (s *Session) RemoveEdge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSettled(); err != nil {
		return err
	}

	if err := s.store.RemoveEdge(id); err != nil {
		return err
	}

	s.state = StateEditing

	return nil
}

// AddKeyword registers a trigger keyword for the current flow.
func (s *Session) AddKeyword(keyword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSettled(); err != nil {
		return err
	}

	if err := s.keywords.Add(keyword); err != nil {
		return err
	}

	s.state = StateEditing

	return nil
}

// RemoveKeyword drops a trigger keyword.
func (s *Session) RemoveKeyword(keyword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSettled(); err != nil {
		return err
	}

	s.keywords.Remove(keyword)
	s.state = StateEditing

	return nil
}

// SetName renames the current flow.
func (s *Session) SetName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSettled(); err != nil {
		return err
	}

	s.name = name
	if s.state == StateEmpty || s.state == StateSaved {
		s.state = StateEditing
	}

	return nil
}

// LoadTemplate replaces the whole canvas from a template reference: a
// built-in template id or a previously saved flow. The session is Loading
// until materialization completes; edits and saves are rejected meanwhile.
func (s *Session) LoadTemplate(ctx context.Context, ref models.TemplateRef) error {
	s.mu.Lock()

	if err := s.ensureSettled(); err != nil {
		s.mu.Unlock()

		return err
	}

	prev := s.state
	s.state = StateLoading
	s.mu.Unlock()

	flow, err := s.materialize(ctx, ref)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = prev

		return err
	}

	if err := s.store.ReplaceAll(flow.FlowData.Nodes, flow.FlowData.Edges); err != nil {
		s.state = prev

		return err
	}

	s.keywords.ReplaceAll(flow.Keywords)
	s.name = flow.Name
	s.origin = ref
	s.state = StateEditing

	s.logger.InfoContext(ctx, "materialized flow", "ref", ref.String(), "nodes", len(flow.FlowData.Nodes))

	return nil
}

func (s *Session) materialize(ctx context.Context, ref models.TemplateRef) (*models.Flow, error) {
	if id, ok := ref.BuiltinID(); ok {
		return s.library.Materialize(id)
	}

	if flowID, ok := ref.SavedID(); ok {
		saved, err := s.flows.FetchByID(ctx, flowID)
		if err != nil {
			return nil, err
		}

		return templates.FromSaved(saved), nil
	}

	return nil, templates.ErrUnknownTemplate
}

// Save persists the current flow. A flow whose origin is a built-in template
// or nothing at all is created; one loaded from (or already saved as) a
// persisted record is updated in place. On a successful create the returned
// id is bound so the next save is an update. On any failure the in-memory
// flow is untouched and the session returns to Editing.
func (s *Session) Save(ctx context.Context) (*models.Flow, error) {
	s.mu.Lock()

	if err := s.ensureSettled(); err != nil {
		s.mu.Unlock()

		return nil, err
	}

	prev := s.state
	s.state = StateSaving
	nodes, edges := s.store.Snapshot()
	req := services.SaveRequest{
		Name:     s.name,
		Nodes:    nodes,
		Edges:    edges,
		Keywords: s.keywords.List(),
		OwnerID:  s.ownerID,
		Origin:   s.origin,
	}
	s.mu.Unlock()

	saved, err := s.flows.Save(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if prev == StateEmpty {
			s.state = StateEmpty
		} else {
			s.state = StateEditing
		}

		return nil, err
	}

	s.origin = models.SavedFlowRef(saved.ID)
	s.state = StateSaved

	return saved, nil
}

// CloneSaved persists a copy of any saved flow by id, without touching the
// session's canvas.
func (s *Session) CloneSaved(ctx context.Context, flowID string) (*models.Flow, error) {
	s.mu.Lock()

	if err := s.ensureSettled(); err != nil {
		s.mu.Unlock()

		return nil, err
	}

	s.mu.Unlock()

	return s.flows.Clone(ctx, flowID)
}

// Clone persists a copy of the current flow's saved record. The current
// session keeps editing the original.
func (s *Session) Clone(ctx context.Context) (*models.Flow, error) {
	s.mu.Lock()

	if err := s.ensureSettled(); err != nil {
		s.mu.Unlock()

		return nil, err
	}

	flowID, ok := s.origin.SavedID()
	s.mu.Unlock()

	if !ok {
		return nil, ErrNotPersisted
	}

	return s.flows.Clone(ctx, flowID)
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Name returns the current flow name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.name
}

// Origin returns where the current flow came from.
func (s *Session) Origin() models.TemplateRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.origin
}

// Keywords returns a copy of the current trigger keywords.
func (s *Session) Keywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.keywords.List()
}

// Snapshot returns deep copies of the current node and edge sets.
func (s *Session) Snapshot() ([]*models.FlowNode, []*models.Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Snapshot()
}

// ensureSettled rejects actions while a load or save is outstanding.
// Callers hold the lock.
func (s *Session) ensureSettled() error {
	if s.state == StateLoading || s.state == StateSaving {
		return ErrBusy
	}

	return nil
}
