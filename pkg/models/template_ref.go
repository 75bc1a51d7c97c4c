package models

// TemplateRef records where the flow currently on the canvas came from. It is
// a tagged variant rather than a string-or-object union: a flow bootstrapped
// from a built-in template must never be confused with one loaded from the
// operator's own saved flows, because that distinction decides whether a save
// inserts a new record or updates an existing one.
type TemplateRef struct {
	builtin string
	saved   string
}

// BuiltInTemplate references one of the catalog's fixed templates.
func BuiltInTemplate(id string) TemplateRef {
	return TemplateRef{builtin: id}
}

// SavedFlowRef references a previously persisted flow by its record id.
func SavedFlowRef(flowID string) TemplateRef {
	return TemplateRef{saved: flowID}
}

// IsZero reports whether the ref is unset (a flow built from scratch).
func (r TemplateRef) IsZero() bool {
	return r.builtin == "" && r.saved == ""
}

// BuiltinID returns the built-in template id when the ref is a built-in.
func (r TemplateRef) BuiltinID() (string, bool) {
	return r.builtin, r.builtin != ""
}

// SavedID returns the persisted flow id when the ref points at a saved flow.
func (r TemplateRef) SavedID() (string, bool) {
	return r.saved, r.saved != ""
}

func (r TemplateRef) String() string {
	switch {
	case r.builtin != "":
		return "template:" + r.builtin
	case r.saved != "":
		return "flow:" + r.saved
	default:
		return "unset"
	}
}
