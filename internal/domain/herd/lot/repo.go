package lot

import (
	"context"
	"time"

	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/ledger"
)

// Filter narrows lot queries. Zero-valued fields are ignored.
type Filter struct {
	IDs        []id.ID
	Status     Status
	ActiveOnly bool

	// ActivityFrom/To selects lots with any presence in the period:
	// entered before the period end and not sold before the period start.
	ActivityFrom *time.Time
	ActivityTo   *time.Time

	IncludeDeleted bool
}

// Repository defines lot data access.
type Repository interface {
	Create(ctx context.Context, l *Lot) error
	Update(ctx context.Context, l *Lot) error
	GetByID(ctx context.Context, lotID id.ID) (*Lot, error)
	List(ctx context.Context, filter Filter) ([]Lot, error)

	// AccumulateCost atomically rolls an amount into the lot's snapshot.
	// Satisfies ledger.CostAccumulator.
	AccumulateCost(ctx context.Context, lotID id.ID, category ledger.Category, amount types.Money) error
}
