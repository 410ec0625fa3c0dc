package sale

import (
	"context"
	"time"

	"confina/internal/core/id"
)

// Repository defines sale record data access.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, recordID id.ID) (*Record, error)

	// ListByLots returns sales for any of the lots dated within [from, to].
	ListByLots(ctx context.Context, lotIDs []id.ID, from, to time.Time) ([]Record, error)
}
