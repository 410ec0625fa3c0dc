package ledger

import (
	"context"
	"time"

	"confina/internal/core/id"
)

// Filter narrows ledger queries. Zero-valued fields are ignored.
type Filter struct {
	TargetType  TargetType
	TargetIDs   []id.ID
	CostCenters []CostCenter
	Categories  []Category

	// Period bounds are inclusive.
	From *time.Time
	To   *time.Time

	// CashImpactingOnly drops entries with ImpactsCashFlow=false.
	CashImpactingOnly bool

	// IncludeVoided keeps voided entries and their reversals in the result.
	IncludeVoided bool
}

// Repository defines cost entry data access.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, entryID id.ID) (*Entry, error)
	List(ctx context.Context, filter Filter) ([]Entry, error)

	// SetVoided flags an entry as voided. The compensating reversal is a
	// separate Create; both happen in one transaction at the service level.
	SetVoided(ctx context.Context, entryID id.ID, version int) error
}
