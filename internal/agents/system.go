package agents

import (
	"context"

	"github.com/JaimeStill/agent-studio/pkg/pagination"
)

// System defines the interface for agent registry operations.
type System interface {
	Create(ctx context.Context, cmd CreateCommand) (*Agent, error)
	Find(ctx context.Context, id string) (*Agent, error)
	List(ctx context.Context) ([]Agent, error)
	Search(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error)
	Update(ctx context.Context, id string, cmd UpdateCommand) (*Agent, error)
	Delete(ctx context.Context, id string) error
	ChangeStatus(ctx context.Context, id string, status Status) (*Agent, error)
}
