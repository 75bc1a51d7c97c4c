package models

import "time"

// FlowData holds the graph portion of a persisted flow: the node set and the
// edge set, in the wire shape the canvas renders.
type FlowData struct {
	Nodes []*FlowNode `json:"nodes"`
	Edges []*Edge     `json:"edges"`
}

// Clone returns a structural deep copy of the graph.
func (d FlowData) Clone() FlowData {
	nodes := make([]*FlowNode, 0, len(d.Nodes))
	for _, node := range d.Nodes {
		nodes = append(nodes, node.Clone())
	}

	edges := make([]*Edge, 0, len(d.Edges))
	for _, edge := range d.Edges {
		edges = append(edges, edge.Clone())
	}

	return FlowData{Nodes: nodes, Edges: edges}
}

// Flow is the complete editable unit: the graph, the out-of-band trigger
// keywords, a display name and persistence metadata. ID is server-assigned on
// create and empty until the flow has been persisted once.
type Flow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"       validate:"required,min=1"`
	FlowData  FlowData  `json:"flow_data"`
	Keywords  []string  `json:"keywords"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the flow. Used by the clone operation so the
// copy never shares node, edge or keyword storage with the original.
func (f *Flow) Clone() *Flow {
	if f == nil {
		return nil
	}

	clone := *f
	clone.FlowData = f.FlowData.Clone()
	clone.Keywords = append([]string(nil), f.Keywords...)

	return &clone
}
