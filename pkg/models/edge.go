package models

// Edge is a directed, optionally labeled connection between two nodes. The
// label disambiguates branch outcomes on condition, menu and keywordTrigger
// nodes ("Common Issue" vs "Complex Issue"); Animated is cosmetic only.
type Edge struct {
	ID       string `json:"id"              validate:"required"`
	Source   string `json:"source"          validate:"required"`
	Target   string `json:"target"          validate:"required"`
	Type     string `json:"type,omitempty"`
	Animated bool   `json:"animated"`
	Label    string `json:"label,omitempty"`
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}

	clone := *e

	return &clone
}
