package allocation

import (
	"context"

	"confina/internal/core/id"
)

// Filter narrows allocation queries.
type Filter struct {
	Status   Status
	CostType CostType
	Limit    int
	Offset   int
}

// Repository defines allocation data access. Lines are stored with their
// parent and loaded eagerly; an allocation is small (one line per lot).
type Repository interface {
	Create(ctx context.Context, a *Allocation) error
	Update(ctx context.Context, a *Allocation) error
	GetByID(ctx context.Context, allocationID id.ID) (*Allocation, error)
	List(ctx context.Context, filter Filter) ([]Allocation, error)

	// Delete hard-deletes a draft. Approved and applied runs are history
	// and never deleted.
	Delete(ctx context.Context, allocationID id.ID) error
}
