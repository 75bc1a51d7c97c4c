// Package keywords maintains the ordered set of entry phrases that activate a
// flow out-of-band from its graph.
package keywords

import (
	"errors"
	"fmt"
	"strings"
)

// Seed keywords applied to every fresh flow.
var defaultKeywords = []string{"hello", "help"}

var (
	// ErrEmptyKeyword indicates an empty or whitespace-only keyword.
	ErrEmptyKeyword = errors.New("keyword cannot be empty")

	// ErrDuplicateKeyword indicates a keyword that is already registered.
	// Matching is exact: keywords are case-sensitive and unnormalized.
	ErrDuplicateKeyword = errors.New("keyword already exists")
)

// Registry is the per-flow list of trigger keywords. Order is preserved;
// entries are distinct under exact string comparison.
type Registry struct {
	entries []string
}

// NewRegistry returns a registry seeded with the default keywords.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()

	return r
}

// Reset restores the seed keywords, discarding the current list.
func (r *Registry) Reset() {
	r.entries = append([]string(nil), defaultKeywords...)
}

// Add appends a keyword. Empty (after trimming) and duplicate keywords are
// rejected without changing the list.
func (r *Registry) Add(keyword string) error {
	if strings.TrimSpace(keyword) == "" {
		return ErrEmptyKeyword
	}

	for _, entry := range r.entries {
		if entry == keyword {
			return fmt.Errorf("%q: %w", keyword, ErrDuplicateKeyword)
		}
	}

	r.entries = append(r.entries, keyword)

	return nil
}

// Remove deletes the first entry equal to the keyword. Removing an absent
// keyword is a no-op.
func (r *Registry) Remove(keyword string) {
	for i, entry := range r.entries {
		if entry == keyword {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)

			return
		}
	}
}

// ReplaceAll swaps in the keyword list of a materialized flow verbatim.
func (r *Registry) ReplaceAll(entries []string) {
	r.entries = append([]string(nil), entries...)
}

// List returns a copy of the current keywords in order.
func (r *Registry) List() []string {
	return append([]string(nil), r.entries...)
}

// Len returns the number of registered keywords.
func (r *Registry) Len() int {
	return len(r.entries)
}
