// Package models defines the core domain models for the conversational flow builder
package models

// NodeKind identifies the conversational role of a node.
type NodeKind string

const (
	KindStart          NodeKind = "start"          // Entry point, exactly where a conversation begins
	KindMessage        NodeKind = "message"        // Sends free text to the contact
	KindCondition      NodeKind = "condition"      // Branches on a condition key
	KindAIAssistant    NodeKind = "aiAssistant"    // Hands the turn to an AI prompt
	KindMenu           NodeKind = "menu"           // Presents an ordered list of options
	KindKeywordTrigger NodeKind = "keywordTrigger" // Branches on matched trigger phrases
)

// Kinds lists every node kind the builder accepts, in catalog order.
func Kinds() []NodeKind {
	return []NodeKind{
		KindStart,
		KindMessage,
		KindCondition,
		KindAIAssistant,
		KindMenu,
		KindKeywordTrigger,
	}
}

// Position is the 2-D canvas placement of a node. Rendering only, never
// consulted by validation or traversal.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the kind-dependent payload of a node. Label is common to all
// kinds; the remaining fields are populated per kind and omitted otherwise.
type NodeData struct {
	Label string `json:"label"              validate:"required,min=1"`

	// message
	Text string `json:"text,omitempty"`

	// menu
	Options []string `json:"options,omitempty"`

	// condition
	ConditionKey string `json:"condition,omitempty"`

	// aiAssistant
	Prompt string `json:"prompt,omitempty"`

	// keywordTrigger
	Keywords []string `json:"keywords,omitempty"`
}

// FlowNode is a node instance inside a flow's graph.
type FlowNode struct {
	ID       string   `json:"id"       validate:"required"`
	Type     NodeKind `json:"type"     validate:"required"`
	Data     NodeData `json:"data"`
	Position Position `json:"position"`
}

// Clone returns a deep copy of the node. Slices inside Data are copied so
// mutating the clone never reaches back into the original.
func (n *FlowNode) Clone() *FlowNode {
	if n == nil {
		return nil
	}

	clone := *n
	clone.Data.Options = append([]string(nil), n.Data.Options...)
	clone.Data.Keywords = append([]string(nil), n.Data.Keywords...)

	return &clone
}
