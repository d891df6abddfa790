package action

import (
	"slices"
	"strings"
	"time"
)

// Filter narrows a list of actions. Empty fields match everything.
type Filter struct {
	Status            []string
	Priority          []string
	ResponsiblePerson string
	DueFrom           *time.Time
	DueTo             *time.Time
}

func (f Filter) IsZero() bool {
	return len(f.Status) == 0 && len(f.Priority) == 0 && f.ResponsiblePerson == "" &&
		f.DueFrom == nil && f.DueTo == nil
}

// Match applies every predicate. Status compares the stored value, and both
// due date bounds are inclusive.
func (f Filter) Match(a Action) bool {
	if len(f.Status) > 0 && !slices.Contains(f.Status, a.Status) {
		return false
	}
	if len(f.Priority) > 0 && !slices.Contains(f.Priority, a.Priority) {
		return false
	}
	if f.ResponsiblePerson != "" &&
		!strings.Contains(strings.ToLower(a.ResponsiblePerson), strings.ToLower(f.ResponsiblePerson)) {
		return false
	}
	if f.DueFrom != nil && a.DueDate.Before(*f.DueFrom) {
		return false
	}
	if f.DueTo != nil && a.DueDate.After(*f.DueTo) {
		return false
	}
	return true
}

// Apply returns the matching actions in input order. actions is not modified.
func (f Filter) Apply(actions []Action) []Action {
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
