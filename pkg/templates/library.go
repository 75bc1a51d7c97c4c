// Package templates provides the fixed catalog of starter flows and the
// materialization path that turns a template, or a previously saved flow,
// into an editable graph.
package templates

import (
	"errors"
	"fmt"

	"github.com/chatforge/chatforge/pkg/models"
)

// ErrUnknownTemplate indicates a template id outside the built-in catalog.
// Unknown references fail loudly instead of silently leaving the canvas
// untouched.
var ErrUnknownTemplate = errors.New("unknown template")

// Template is one read-only catalog entry: gallery metadata plus the fixed
// graph and seed keywords it materializes into.
type Template struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Data        models.FlowData `json:"flow_data"`
	Keywords    []string        `json:"keywords"`
}

// Library is the static, in-process template catalog. No external I/O.
type Library struct {
	templates map[string]Template
	order     []string
}

// NewLibrary returns a library with the four built-in templates registered.
func NewLibrary() *Library {
	l := &Library{templates: make(map[string]Template)}

	for _, t := range builtins() {
		l.templates[t.ID] = t
		l.order = append(l.order, t.ID)
	}

	return l
}

// List returns the catalog entries in registration order, for the gallery.
func (l *Library) List() []Template {
	out := make([]Template, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.templates[id])
	}

	return out
}

// Materialize returns a fresh, unpersisted flow built from the template:
// deep-copied nodes and edges, the template's name and seed keywords, no
// record id. Two materializations never share storage.
func (l *Library) Materialize(id string) (*models.Flow, error) {
	tpl, ok := l.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", id, ErrUnknownTemplate)
	}

	return &models.Flow{
		Name:     tpl.Name,
		FlowData: tpl.Data.Clone(),
		Keywords: append([]string(nil), tpl.Keywords...),
	}, nil
}

// FromSaved materializes a previously persisted flow as a template source.
// Nodes, edges and keywords are copied verbatim (ids are never regenerated)
// and the saved flow's name and record id are adopted.
func FromSaved(flow *models.Flow) *models.Flow {
	return flow.Clone()
}
