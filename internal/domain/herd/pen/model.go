// Package pen provides the Pen catalog and the lot-pen allocation links
// (many-to-many with head counts and percentage shares).
package pen

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/entity"
	"confina/internal/core/id"
)

// Pen is a physical confinement pen.
type Pen struct {
	entity.BaseEntity

	Code     string `db:"code" json:"code"`
	Capacity int    `db:"capacity" json:"capacity"`
	Location string `db:"location" json:"location,omitempty"`
}

// NewPen creates a pen.
func NewPen(code string, capacity int) *Pen {
	return &Pen{
		BaseEntity: entity.NewBaseEntity(),
		Code:       code,
		Capacity:   capacity,
	}
}

// Validate implements entity.Validatable.
func (p *Pen) Validate(ctx context.Context) error {
	if p.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if p.Capacity <= 0 {
		return apperror.NewValidation("capacity must be positive").
			WithDetail("field", "capacity")
	}
	return nil
}

// LinkStatus is the allocation link state.
type LinkStatus string

const (
	LinkActive  LinkStatus = "active"
	LinkRemoved LinkStatus = "removed"
)

// Link allocates part of a lot to a pen.
//
// Invariants, re-normalized by the service on every change:
//   - Σ Quantity over a lot's active links ≤ the lot's current head count
//   - Σ PctOfLot over a lot's active links == 100 (± rounding epsilon)
//   - Σ PctOfPen over a pen's active links == 100 (± rounding epsilon)
type Link struct {
	entity.BaseEntity

	LotID id.ID `db:"lot_id" json:"lotId"`
	PenID id.ID `db:"pen_id" json:"penId"`

	Quantity int     `db:"quantity" json:"quantidade"`
	PctOfLot float64 `db:"pct_of_lot" json:"percentualDoLote"`
	PctOfPen float64 `db:"pct_of_pen" json:"percentualDoCurral"`

	AllocatedAt time.Time  `db:"allocated_at" json:"dataAlocacao"`
	RemovedAt   *time.Time `db:"removed_at" json:"dataRemocao,omitempty"`
	Status      LinkStatus `db:"status" json:"status"`
}

// NewLink creates an active allocation link.
func NewLink(lotID, penID id.ID, quantity int, at time.Time) *Link {
	return &Link{
		BaseEntity:  entity.NewBaseEntity(),
		LotID:       lotID,
		PenID:       penID,
		Quantity:    quantity,
		AllocatedAt: at,
		Status:      LinkActive,
	}
}

// Remove closes the link at the given time.
func (l *Link) Remove(at time.Time) {
	l.Status = LinkRemoved
	l.RemovedAt = &at
	l.Touch()
}

// ActiveDuring reports whether the link overlaps the [from, to] period.
func (l *Link) ActiveDuring(from, to time.Time) bool {
	if l.AllocatedAt.After(to) {
		return false
	}
	if l.RemovedAt != nil && l.RemovedAt.Before(from) {
		return false
	}
	return true
}
