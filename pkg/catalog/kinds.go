package catalog

import "github.com/chatforge/chatforge/pkg/models"

// registerDefaults registers the six node kinds the builder ships with. The
// schemas intentionally allow extra fields so older persisted payloads keep
// validating after new optional fields appear.
func (c *Catalog) registerDefaults() {
	c.register(Definition{
		Kind:        models.KindStart,
		Name:        "Start",
		Description: "Entry point of the conversation. Every executable flow begins here.",
		DefaultData: models.NodeData{Label: "Start"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"label": map[string]any{"type": "string", "minLength": 1},
			},
			"required": []string{"label"},
		},
	})

	c.register(Definition{
		Kind:        models.KindMessage,
		Name:        "Message",
		Description: "Sends a free-text message to the contact.",
		DefaultData: models.NodeData{Label: "Message", Text: ""},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"label": map[string]any{"type": "string", "minLength": 1},
				"text":  map[string]any{"type": "string"},
			},
			"required": []string{"label"},
		},
	})

	c.register(Definition{
		Kind:        models.KindCondition,
		Name:        "Condition",
		Description: "Routes the conversation down one of two branches based on a condition key.",
		DefaultData: models.NodeData{Label: "Condition", ConditionKey: ""},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"label":     map[string]any{"type": "string", "minLength": 1},
				"condition": map[string]any{"type": "string"},
			},
			"required": []string{"label"},
		},
	})

	c.register(Definition{
		Kind:        models.KindAIAssistant,
		Name:        "AI Assistant",
		Description: "Hands the conversation to an AI assistant driven by a prompt.",
		DefaultData: models.NodeData{Label: "AI Assistant", Prompt: ""},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"label":  map[string]any{"type": "string", "minLength": 1},
				"prompt": map[string]any{"type": "string"},
			},
			"required": []string{"label"},
		},
	})

	c.register(Definition{
		Kind:        models.KindMenu,
		Name:        "Menu",
		Description: "Presents an ordered list of options, one outgoing branch per option.",
		DefaultData: models.NodeData{Label: "Menu", Options: []string{}},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"label": map[string]any{"type": "string", "minLength": 1},
				"options": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string", "minLength": 1},
				},
			},
			"required": []string{"label"},
		},
	})

	c.register(Definition{
		Kind:        models.KindKeywordTrigger,
		Name:        "Keyword Trigger",
		Description: "Branches on whether the contact's message matches one of the trigger phrases.",
		DefaultData: models.NodeData{Label: "Keyword Trigger", Keywords: []string{}},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"label": map[string]any{"type": "string", "minLength": 1},
				"keywords": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string", "minLength": 1},
				},
			},
			"required": []string{"label"},
		},
	})
}
