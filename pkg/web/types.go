// Package web provides HTTP request and response types for the flow builder API.
package web

import (
	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/models"
	"github.com/chatforge/chatforge/pkg/templates"
)

// SaveFlowRequest is the request body for creating or updating a flow.
// Template optionally names the built-in template the canvas started from;
// it never turns a create into an update, the route does that.
type SaveFlowRequest struct {
	Name     string             `json:"name"               validate:"required,min=1"`
	Nodes    []*models.FlowNode `json:"nodes"              validate:"required,min=1"`
	Edges    []*models.Edge     `json:"edges"`
	Keywords []string           `json:"keywords"`
	OwnerID  string             `json:"user_id"            validate:"required"`
	Template string             `json:"template,omitempty"`
}

// TemplateResponse is a gallery entry: enough to render a card without
// shipping the whole graph.
type TemplateResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Keywords    []string `json:"keywords"`
	NodeCount   int      `json:"node_count"`
}

// TransformTemplateResponse builds a gallery entry from a template.
func TransformTemplateResponse(tpl templates.Template) TemplateResponse {
	return TemplateResponse{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		Icon:        tpl.Icon,
		Keywords:    tpl.Keywords,
		NodeCount:   len(tpl.Data.Nodes),
	}
}

// NodeDefinitionResponse describes one palette entry of the node catalog.
type NodeDefinitionResponse struct {
	Kind        models.NodeKind `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	DefaultData models.NodeData `json:"default_data"`
	Branching   bool            `json:"branching"`
}

// TransformNodeDefinitionResponse builds a palette entry from a catalog
// definition.
func TransformNodeDefinitionResponse(c *catalog.Catalog, def catalog.Definition) NodeDefinitionResponse {
	return NodeDefinitionResponse{
		Kind:        def.Kind,
		Name:        def.Name,
		Description: def.Description,
		DefaultData: def.DefaultData,
		Branching:   c.Branching(def.Kind),
	}
}
