// Package graph holds the in-memory node/edge set of the flow currently being
// edited and enforces referential integrity across every mutation.
package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/models"
)

// Canvas layout constants for the default vertical chain.
const (
	layoutColumnX  = 250.0
	layoutOriginY  = 50.0
	layoutRowPitch = 120.0
)

// Store holds one flow's graph. Node ids are allocated from a monotonically
// increasing counter, so ids never repeat within a store even after removals
// or whole-graph replacement.
type Store struct {
	catalog *catalog.Catalog
	nodes   []*models.FlowNode
	edges   []*models.Edge
	seq     int
	last    string // id of the most recently added node, auto-chain source
}

// NewStore returns a store seeded with a single default start node.
func NewStore(c *catalog.Catalog) *Store {
	s := &Store{catalog: c}
	s.Reset()

	return s
}

// Reset discards the current graph and seeds the default start node. The
// previous contents are gone; callers persist beforehand or lose them.
func (s *Store) Reset() {
	s.nodes = nil
	s.edges = nil
	s.seq = 0
	s.last = ""

	// The catalog always defines start, so the seed cannot fail.
	_, _ = s.AddNode(models.KindStart, "Start")
}

// AddNode appends a new node of the given kind. The node gets the kind's
// default payload with the label applied, a deterministic vertical layout
// position, and (when the graph is non-empty) an animated unlabeled edge
// from the most recently added node, so the default topology is a chain.
func (s *Store) AddNode(kind models.NodeKind, label string) (*models.FlowNode, error) {
	def, err := s.catalog.Lookup(kind)
	if err != nil {
		return nil, &Error{Op: "AddNode", Err: err}
	}

	data := def.DefaultData
	data.Options = append([]string(nil), def.DefaultData.Options...)
	data.Keywords = append([]string(nil), def.DefaultData.Keywords...)

	if label != "" {
		data.Label = label
	}

	s.seq++
	node := &models.FlowNode{
		ID:   fmt.Sprintf("%s-%d", kind, s.seq),
		Type: kind,
		Data: data,
		Position: models.Position{
			X: layoutColumnX,
			Y: layoutOriginY + float64(len(s.nodes))*layoutRowPitch,
		},
	}

	s.nodes = append(s.nodes, node)

	if s.last != "" {
		s.edges = append(s.edges, &models.Edge{
			ID:       edgeID(s.last, node.ID),
			Source:   s.last,
			Target:   node.ID,
			Animated: true,
		})
	}

	s.last = node.ID

	return node, nil
}

// Connect adds an explicit edge between two existing nodes. The label
// disambiguates branch outcomes on branching nodes and may be empty.
func (s *Store) Connect(sourceID, targetID, label string) (*models.Edge, error) {
	if s.Node(sourceID) == nil {
		return nil, &Error{Op: "Connect", NodeID: sourceID, Err: ErrNodeNotFound}
	}

	if s.Node(targetID) == nil {
		return nil, &Error{Op: "Connect", NodeID: targetID, Err: ErrNodeNotFound}
	}

	id := edgeID(sourceID, targetID)
	for _, edge := range s.edges {
		if edge.ID == id {
			return nil, &Error{Op: "Connect", EdgeID: id, Err: ErrDuplicateEdge}
		}
	}

	edge := &models.Edge{
		ID:       id,
		Source:   sourceID,
		Target:   targetID,
		Animated: true,
		Label:    label,
	}
	s.edges = append(s.edges, edge)

	return edge, nil
}

// RemoveNode deletes a node and every edge incident to it.
func (s *Store) RemoveNode(id string) error {
	idx := -1

	for i, node := range s.nodes {
		if node.ID == id {
			idx = i

			break
		}
	}

	if idx < 0 {
		return &Error{Op: "RemoveNode", NodeID: id, Err: ErrNodeNotFound}
	}

	s.nodes = append(s.nodes[:idx], s.nodes[idx+1:]...)

	kept := s.edges[:0]

	for _, edge := range s.edges {
		if edge.Source != id && edge.Target != id {
			kept = append(kept, edge)
		}
	}

	s.edges = kept

	if s.last == id {
		s.last = ""
		if len(s.nodes) > 0 {
			s.last = s.nodes[len(s.nodes)-1].ID
		}
	}

	return nil
}

// RemoveEdge deletes a single edge by id.
func (s *Store) RemoveEdge(id string) error {
	for i, edge := range s.edges {
		if edge.ID == id {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)

			return nil
		}
	}

	return &Error{Op: "RemoveEdge", EdgeID: id, Err: ErrEdgeNotFound}
}

// ReplaceAll swaps in a whole graph, as happens when a template or a saved
// flow is materialized. The incoming sets are deep-copied, referential
// integrity is checked up front, and the id counter is re-seeded above any
// numeric suffix present so later AddNode calls cannot collide.
func (s *Store) ReplaceAll(nodes []*models.FlowNode, edges []*models.Edge) error {
	ids := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		ids[node.ID] = struct{}{}
	}

	for _, edge := range edges {
		if _, ok := ids[edge.Source]; !ok {
			return &Error{Op: "ReplaceAll", EdgeID: edge.ID, Err: ErrDanglingEdge}
		}

		if _, ok := ids[edge.Target]; !ok {
			return &Error{Op: "ReplaceAll", EdgeID: edge.ID, Err: ErrDanglingEdge}
		}
	}

	s.nodes = make([]*models.FlowNode, 0, len(nodes))
	for _, node := range nodes {
		s.nodes = append(s.nodes, node.Clone())

		if suffix, ok := idSuffix(node.ID); ok && suffix > s.seq {
			s.seq = suffix
		}
	}

	s.edges = make([]*models.Edge, 0, len(edges))
	for _, edge := range edges {
		s.edges = append(s.edges, edge.Clone())
	}

	s.last = ""
	if len(s.nodes) > 0 {
		s.last = s.nodes[len(s.nodes)-1].ID
	}

	return nil
}

// Snapshot returns deep copies of the node and edge sets, decoupled from the
// live store. Mutating a snapshot never reaches the store and vice versa.
func (s *Store) Snapshot() ([]*models.FlowNode, []*models.Edge) {
	data := models.FlowData{Nodes: s.nodes, Edges: s.edges}.Clone()

	return data.Nodes, data.Edges
}

// Node returns the node with the given id, or nil.
func (s *Store) Node(id string) *models.FlowNode {
	for _, node := range s.nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

// Nodes returns the live node set. Callers must treat it as read-only; use
// Snapshot for anything that outlives the next mutation.
func (s *Store) Nodes() []*models.FlowNode {
	return s.nodes
}

// Edges returns the live edge set, read-only like Nodes.
func (s *Store) Edges() []*models.Edge {
	return s.edges
}

// LastAdded returns the id of the node the next AddNode will auto-chain from.
func (s *Store) LastAdded() string {
	return s.last
}

// Validate checks that every edge references existing nodes.
func (s *Store) Validate() error {
	ids := make(map[string]struct{}, len(s.nodes))
	for _, node := range s.nodes {
		ids[node.ID] = struct{}{}
	}

	for _, edge := range s.edges {
		if _, ok := ids[edge.Source]; !ok {
			return &Error{Op: "Validate", EdgeID: edge.ID, Err: ErrDanglingEdge}
		}

		if _, ok := ids[edge.Target]; !ok {
			return &Error{Op: "Validate", EdgeID: edge.ID, Err: ErrDanglingEdge}
		}
	}

	return nil
}

// OutgoingCount returns how many edges originate at the given node.
func (s *Store) OutgoingCount(nodeID string) int {
	count := 0

	for _, edge := range s.edges {
		if edge.Source == nodeID {
			count++
		}
	}

	return count
}

func edgeID(source, target string) string {
	return "e" + source + "-" + target
}

// idSuffix extracts the numeric tail of ids shaped like "{kind}-{n}".
// Hand-authored template ids ("message-2") participate in re-seeding too.
func idSuffix(id string) (int, bool) {
	cut := strings.LastIndex(id, "-")
	if cut < 0 || cut == len(id)-1 {
		return 0, false
	}

	n, err := strconv.Atoi(id[cut+1:])
	if err != nil {
		return 0, false
	}

	return n, true
}
