package templates

import "github.com/chatforge/chatforge/pkg/models"

// Built-in template ids.
const (
	WelcomeFlow = "welcome-flow"
	SupportFlow = "support-flow"
	SalesFlow   = "sales-flow"
	FAQFlow     = "faq-flow"
)

// builtins returns the four hand-authored starter graphs. Each demonstrates
// one conversational pattern; support-flow and faq-flow are the two that
// exercise labeled branching.
func builtins() []Template {
	return []Template{
		{
			ID:          WelcomeFlow,
			Name:        "Welcome Flow",
			Description: "Greets a new contact and offers the main menu.",
			Icon:        "hand-wave",
			Keywords:    []string{"hello", "hi"},
			Data: models.FlowData{
				Nodes: []*models.FlowNode{
					{
						ID: "start-1", Type: models.KindStart,
						Data:     models.NodeData{Label: "Start"},
						Position: models.Position{X: 250, Y: 50},
					},
					{
						ID: "message-1", Type: models.KindMessage,
						Data:     models.NodeData{Label: "Greeting", Text: "Hi! Welcome to our store. How can we help you today?"},
						Position: models.Position{X: 250, Y: 170},
					},
					{
						ID: "menu-1", Type: models.KindMenu,
						Data:     models.NodeData{Label: "Main Menu", Options: []string{"Products", "Orders", "Talk to an agent"}},
						Position: models.Position{X: 250, Y: 290},
					},
				},
				Edges: []*models.Edge{
					{ID: "estart-1-message-1", Source: "start-1", Target: "message-1", Animated: true},
					{ID: "emessage-1-menu-1", Source: "message-1", Target: "menu-1", Animated: true},
				},
			},
		},
		{
			ID:          SupportFlow,
			Name:        "Support Flow",
			Description: "Triages an issue between the AI assistant and a human agent.",
			Icon:        "headset",
			Keywords:    []string{"help", "support"},
			Data: models.FlowData{
				Nodes: []*models.FlowNode{
					{
						ID: "start-1", Type: models.KindStart,
						Data:     models.NodeData{Label: "Start"},
						Position: models.Position{X: 250, Y: 50},
					},
					{
						ID: "message-1", Type: models.KindMessage,
						Data:     models.NodeData{Label: "Intake", Text: "Sorry you're having trouble! Tell us what's going on."},
						Position: models.Position{X: 250, Y: 170},
					},
					{
						ID: "condition-1", Type: models.KindCondition,
						Data:     models.NodeData{Label: "Triage", ConditionKey: "known_issue"},
						Position: models.Position{X: 250, Y: 290},
					},
					{
						ID: "aiAssistant-1", Type: models.KindAIAssistant,
						Data:     models.NodeData{Label: "Self Service", Prompt: "Walk the customer through the standard fix for their reported issue."},
						Position: models.Position{X: 100, Y: 410},
					},
					{
						ID: "message-2", Type: models.KindMessage,
						Data:     models.NodeData{Label: "Human Handoff", Text: "This one needs a specialist. Connecting you with our support team now."},
						Position: models.Position{X: 400, Y: 410},
					},
				},
				Edges: []*models.Edge{
					{ID: "estart-1-message-1", Source: "start-1", Target: "message-1", Animated: true},
					{ID: "emessage-1-condition-1", Source: "message-1", Target: "condition-1", Animated: true},
					{ID: "econdition-1-aiAssistant-1", Source: "condition-1", Target: "aiAssistant-1", Animated: true, Label: "Common Issue"},
					{ID: "econdition-1-message-2", Source: "condition-1", Target: "message-2", Animated: true, Label: "Complex Issue"},
				},
			},
		},
		{
			ID:          SalesFlow,
			Name:        "Sales Flow",
			Description: "Qualifies a lead and hands the conversation to the sales assistant.",
			Icon:        "shopping-cart",
			Keywords:    []string{"buy", "pricing"},
			Data: models.FlowData{
				Nodes: []*models.FlowNode{
					{
						ID: "start-1", Type: models.KindStart,
						Data:     models.NodeData{Label: "Start"},
						Position: models.Position{X: 250, Y: 50},
					},
					{
						ID: "message-1", Type: models.KindMessage,
						Data:     models.NodeData{Label: "Pitch", Text: "Great to hear you're interested! Here's what we offer."},
						Position: models.Position{X: 250, Y: 170},
					},
					{
						ID: "menu-1", Type: models.KindMenu,
						Data:     models.NodeData{Label: "Plans", Options: []string{"Starter", "Business", "Enterprise"}},
						Position: models.Position{X: 250, Y: 290},
					},
					{
						ID: "message-2", Type: models.KindMessage,
						Data:     models.NodeData{Label: "Plan Details", Text: "Good choice! Let me pull up the details for that plan."},
						Position: models.Position{X: 250, Y: 410},
					},
					{
						ID: "aiAssistant-1", Type: models.KindAIAssistant,
						Data:     models.NodeData{Label: "Sales Assistant", Prompt: "Answer pricing and feature questions for the selected plan and offer to set up a trial."},
						Position: models.Position{X: 250, Y: 530},
					},
				},
				Edges: []*models.Edge{
					{ID: "estart-1-message-1", Source: "start-1", Target: "message-1", Animated: true},
					{ID: "emessage-1-menu-1", Source: "message-1", Target: "menu-1", Animated: true},
					{ID: "emenu-1-message-2", Source: "menu-1", Target: "message-2", Animated: true},
					{ID: "emessage-2-aiAssistant-1", Source: "message-2", Target: "aiAssistant-1", Animated: true},
				},
			},
		},
		{
			ID:          FAQFlow,
			Name:        "FAQ Flow",
			Description: "Answers frequent questions by keyword, with a fallback reply.",
			Icon:        "question-circle",
			Keywords:    []string{"faq", "question"},
			Data: models.FlowData{
				Nodes: []*models.FlowNode{
					{
						ID: "start-1", Type: models.KindStart,
						Data:     models.NodeData{Label: "Start"},
						Position: models.Position{X: 250, Y: 50},
					},
					{
						ID: "keywordTrigger-1", Type: models.KindKeywordTrigger,
						Data:     models.NodeData{Label: "Topic Match", Keywords: []string{"shipping", "returns", "payment"}},
						Position: models.Position{X: 250, Y: 170},
					},
					{
						ID: "aiAssistant-1", Type: models.KindAIAssistant,
						Data:     models.NodeData{Label: "FAQ Assistant", Prompt: "Answer the matched question from the knowledge base, briefly and precisely."},
						Position: models.Position{X: 100, Y: 290},
					},
					{
						ID: "message-1", Type: models.KindMessage,
						Data:     models.NodeData{Label: "Fallback", Text: "I didn't catch that. Try asking about shipping, returns or payment."},
						Position: models.Position{X: 400, Y: 290},
					},
				},
				Edges: []*models.Edge{
					{ID: "estart-1-keywordTrigger-1", Source: "start-1", Target: "keywordTrigger-1", Animated: true},
					{ID: "ekeywordTrigger-1-aiAssistant-1", Source: "keywordTrigger-1", Target: "aiAssistant-1", Animated: true, Label: "Keyword Match"},
					{ID: "ekeywordTrigger-1-message-1", Source: "keywordTrigger-1", Target: "message-1", Animated: true, Label: "No Match"},
				},
			},
		},
	}
}
