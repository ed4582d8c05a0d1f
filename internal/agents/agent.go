// Package agents provides the domain system for managing the catalog of agents
// and their lifecycle status.
package agents

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an agent.
type Status string

const (
	StatusActive    Status = "Active"
	StatusInactive  Status = "Inactive"
	StatusSuspended Status = "Suspended"
)

// ParseStatus validates s as a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusActive, StatusInactive, StatusSuspended:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Agent is a named, status-tracked entity in the registry.
type Agent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Capabilities []string  `json:"capabilities"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCommand contains the data required to create a new agent.
// An empty ID is replaced with a generated one. An empty or Inactive status
// is stored as Active.
type CreateCommand struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
	Status       Status   `json:"status,omitempty"`
}

// UpdateCommand contains the data that replaces an existing agent's fields.
// An empty status leaves the stored status unchanged.
type UpdateCommand struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
	Status       Status   `json:"status,omitempty"`
}
