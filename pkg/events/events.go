// Package events defines event types and structures for flow lifecycle
// notifications.
package events

import (
	"time"
)

type EventType string

const Topic = "chatforge.flows"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	FlowCreatedEvent EventType = "flow.created"
	FlowUpdatedEvent EventType = "flow.updated"
	FlowClonedEvent  EventType = "flow.cloned"
	FlowDeletedEvent EventType = "flow.deleted"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	FlowID    string         `json:"flow_id"`
	OwnerID   string         `json:"owner_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// FlowCreated is published after a flow record is inserted for the first
// time, including the create leg of a clone.
type FlowCreated struct {
	BaseEvent

	Name     string `json:"name"`
	Template string `json:"template,omitempty"` // built-in template id, when bootstrapped from one
}

func (e FlowCreated) GetType() EventType {
	return FlowCreatedEvent
}

// FlowUpdated is published after an existing record is overwritten.
type FlowUpdated struct {
	BaseEvent

	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e FlowUpdated) GetType() EventType {
	return FlowUpdatedEvent
}

// FlowCloned is published after a clone create succeeds, carrying both ends
// of the copy.
type FlowCloned struct {
	BaseEvent

	SourceFlowID string `json:"source_flow_id"`
	Name         string `json:"name"`
}

func (e FlowCloned) GetType() EventType {
	return FlowClonedEvent
}

// FlowDeleted is published after a record is removed.
type FlowDeleted struct {
	BaseEvent
}

func (e FlowDeleted) GetType() EventType {
	return FlowDeletedEvent
}
