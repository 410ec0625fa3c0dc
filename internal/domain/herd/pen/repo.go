package pen

import (
	"context"
	"time"

	"confina/internal/core/id"
)

// Repository defines pen data access.
type Repository interface {
	Create(ctx context.Context, p *Pen) error
	Update(ctx context.Context, p *Pen) error
	GetByID(ctx context.Context, penID id.ID) (*Pen, error)
	List(ctx context.Context) ([]Pen, error)
}

// LinkRepository defines lot-pen link data access.
type LinkRepository interface {
	Create(ctx context.Context, link *Link) error
	Update(ctx context.Context, link *Link) error
	GetByID(ctx context.Context, linkID id.ID) (*Link, error)

	ListActiveByLot(ctx context.Context, lotID id.ID) ([]Link, error)
	ListActiveByPen(ctx context.Context, penID id.ID) ([]Link, error)

	// ListByPenOverlapping returns links of a pen whose active interval
	// overlaps [from, to], including already removed ones.
	ListByPenOverlapping(ctx context.Context, penID id.ID, from, to time.Time) ([]Link, error)
}
