// Package catalog defines the fixed set of node kinds the flow builder
// accepts, together with each kind's default payload and payload schema.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chatforge/chatforge/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrUnknownNodeKind indicates a node kind outside the six the builder defines.
var ErrUnknownNodeKind = errors.New("unknown node kind")

// ErrInvalidNodeData indicates a node payload that fails its kind's schema.
var ErrInvalidNodeData = errors.New("invalid node data")

// Definition is the rendering/validation contract of one node kind.
type Definition struct {
	Kind        models.NodeKind
	Name        string
	Description string
	DefaultData models.NodeData
	Schema      map[string]any
}

// Catalog is a pure lookup table from node kind to definition. It has no
// side effects and is safe for concurrent readers once built.
type Catalog struct {
	definitions map[models.NodeKind]Definition
	order       []models.NodeKind
}

// New builds a catalog with all six built-in node kinds registered.
func New() *Catalog {
	c := &Catalog{definitions: make(map[models.NodeKind]Definition)}
	c.registerDefaults()

	return c
}

func (c *Catalog) register(def Definition) {
	c.definitions[def.Kind] = def
	c.order = append(c.order, def.Kind)
}

// Lookup returns the definition for a kind, or ErrUnknownNodeKind.
func (c *Catalog) Lookup(kind models.NodeKind) (Definition, error) {
	def, ok := c.definitions[kind]
	if !ok {
		return Definition{}, fmt.Errorf("node kind %q: %w", kind, ErrUnknownNodeKind)
	}

	return def, nil
}

// Definitions returns all definitions in registration order.
func (c *Catalog) Definitions() []Definition {
	defs := make([]Definition, 0, len(c.order))
	for _, kind := range c.order {
		defs = append(defs, c.definitions[kind])
	}

	return defs
}

// ValidateData checks a node payload against its kind's JSON schema.
func (c *Catalog) ValidateData(kind models.NodeKind, data models.NodeData) error {
	def, err := c.Lookup(kind)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal node data: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(def.Schema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("validate node data: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return fmt.Errorf("%w for kind %q: %s", ErrInvalidNodeData, kind, strings.Join(details, "; "))
	}

	return nil
}

// Branching reports whether a kind fans out into multiple labeled branches.
func (c *Catalog) Branching(kind models.NodeKind) bool {
	switch kind {
	case models.KindCondition, models.KindMenu, models.KindKeywordTrigger:
		return true
	default:
		return false
	}
}

// DeclaredBranches returns how many outgoing branches a node declares through
// its payload: one per menu option, two for condition (met / not met) and two
// for keywordTrigger (matched / fallback). Non-branching kinds declare none.
func (c *Catalog) DeclaredBranches(node *models.FlowNode) int {
	switch node.Type {
	case models.KindMenu:
		return len(node.Data.Options)
	case models.KindCondition, models.KindKeywordTrigger:
		return 2
	default:
		return 0
	}
}
