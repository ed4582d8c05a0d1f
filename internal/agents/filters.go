package agents

import (
	"cmp"
	"slices"
	"strings"

	"github.com/JaimeStill/agent-studio/pkg/pagination"
)

// Filters contains optional filtering criteria for agent searches.
type Filters struct {
	Name       *string `json:"name,omitempty"`
	Status     *Status `json:"status,omitempty"`
	Capability *string `json:"capability,omitempty"`
}

// Match reports whether a satisfies every set filter. Name matches as a
// case-insensitive substring, Capability as an exact member.
func (f Filters) Match(a *Agent) bool {
	if f.Name != nil && !containsFold(a.Name, *f.Name) {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.Capability != nil && !slices.Contains(a.Capabilities, *f.Capability) {
		return false
	}
	return true
}

func matchSearch(a *Agent, search *string) bool {
	if search == nil || *search == "" {
		return true
	}
	return containsFold(a.Name, *search) || containsFold(a.Description, *search)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

var comparators = pagination.Comparators[Agent]{
	"name":       func(a, b Agent) int { return strings.Compare(a.Name, b.Name) },
	"status":     func(a, b Agent) int { return strings.Compare(string(a.Status), string(b.Status)) },
	"created_at": func(a, b Agent) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updated_at": func(a, b Agent) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	"id":         func(a, b Agent) int { return cmp.Compare(a.ID, b.ID) },
}

var defaultSort = pagination.SortField{Field: "name"}
