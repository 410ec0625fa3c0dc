package pen

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/tx"
	"confina/internal/domain/herd/lot"
	"confina/pkg/logger"
)

// Service provides pen and allocation-link operations.
type Service struct {
	pens      Repository
	links     LinkRepository
	lots      lot.Repository
	txManager tx.Manager
}

// NewService creates a pen service.
func NewService(pens Repository, links LinkRepository, lots lot.Repository, txManager tx.Manager) *Service {
	return &Service{pens: pens, links: links, lots: lots, txManager: txManager}
}

// CreatePen registers a new pen.
func (s *Service) CreatePen(ctx context.Context, code string, capacity int, location string) (*Pen, error) {
	p := NewPen(code, capacity)
	p.Location = location
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.pens.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPen returns a pen by id.
func (s *Service) GetPen(ctx context.Context, penID id.ID) (*Pen, error) {
	p, err := s.pens.GetByID(ctx, penID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.DeletionMark {
		return nil, apperror.NewNotFound("pen", penID)
	}
	return p, nil
}

// ListPens returns all pens.
func (s *Service) ListPens(ctx context.Context) ([]Pen, error) {
	return s.pens.List(ctx)
}

// Allocate places quantity heads of a lot into a pen and re-normalizes the
// percentage shares on both sides of the link.
func (s *Service) Allocate(ctx context.Context, lotID, penID id.ID, quantity int, at time.Time) (*Link, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	l, err := s.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if l == nil || l.DeletionMark {
		return nil, apperror.NewNotFound("lot", lotID)
	}

	p, err := s.GetPen(ctx, penID)
	if err != nil {
		return nil, err
	}

	lotLinks, err := s.links.ListActiveByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	allocated := 0
	for _, lk := range lotLinks {
		allocated += lk.Quantity
	}
	if allocated+quantity > l.CurrentQuantity() {
		return nil, apperror.NewValidation("allocation exceeds lot head count").
			WithDetail("lot", l.Number).
			WithDetail("current", l.CurrentQuantity()).
			WithDetail("allocated", allocated).
			WithDetail("requested", quantity)
	}

	penLinks, err := s.links.ListActiveByPen(ctx, penID)
	if err != nil {
		return nil, err
	}
	occupied := 0
	for _, lk := range penLinks {
		occupied += lk.Quantity
	}
	if occupied+quantity > p.Capacity {
		return nil, apperror.NewBusinessRule(apperror.CodePenOverAllocated, "pen capacity exceeded").
			WithDetail("pen", p.Code).
			WithDetail("capacity", p.Capacity).
			WithDetail("occupied", occupied).
			WithDetail("requested", quantity)
	}

	link := NewLink(lotID, penID, quantity, at)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.links.Create(ctx, link); err != nil {
			return err
		}
		if err := s.renormalizeLot(ctx, lotID); err != nil {
			return err
		}
		return s.renormalizePen(ctx, penID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "lot allocated to pen", "lot", l.Number, "pen", p.Code, "heads", quantity)
	return s.links.GetByID(ctx, link.ID)
}

// RemoveLink closes an allocation link and re-normalizes shares.
func (s *Service) RemoveLink(ctx context.Context, linkID id.ID, at time.Time) error {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return err
	}
	if link == nil {
		return apperror.NewNotFound("allocation link", linkID)
	}
	if link.Status == LinkRemoved {
		return apperror.NewConflict("link is already removed").
			WithDetail("id", linkID)
	}

	link.Remove(at)

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.links.Update(ctx, link); err != nil {
			return err
		}
		if err := s.renormalizeLot(ctx, link.LotID); err != nil {
			return err
		}
		return s.renormalizePen(ctx, link.PenID)
	})
}

// LotsInPen resolves the distinct lot ids with links overlapping the period.
func (s *Service) LotsInPen(ctx context.Context, penID id.ID, from, to time.Time) ([]id.ID, error) {
	links, err := s.links.ListByPenOverlapping(ctx, penID, from, to)
	if err != nil {
		return nil, err
	}

	seen := make(map[id.ID]struct{}, len(links))
	var out []id.ID
	for _, lk := range links {
		if _, ok := seen[lk.LotID]; ok {
			continue
		}
		seen[lk.LotID] = struct{}{}
		out = append(out, lk.LotID)
	}
	return out, nil
}

// renormalizeLot recomputes PctOfLot so the active links of a lot sum to 100.
func (s *Service) renormalizeLot(ctx context.Context, lotID id.ID) error {
	links, err := s.links.ListActiveByLot(ctx, lotID)
	if err != nil {
		return err
	}
	total := 0
	for _, lk := range links {
		total += lk.Quantity
	}
	for i := range links {
		lk := &links[i]
		pct := 0.0
		if total > 0 {
			pct = float64(lk.Quantity) / float64(total) * 100
		}
		if pct == lk.PctOfLot {
			continue
		}
		lk.PctOfLot = pct
		lk.Touch()
		if err := s.links.Update(ctx, lk); err != nil {
			return err
		}
	}
	return nil
}

// renormalizePen recomputes PctOfPen so the active links of a pen sum to 100.
func (s *Service) renormalizePen(ctx context.Context, penID id.ID) error {
	links, err := s.links.ListActiveByPen(ctx, penID)
	if err != nil {
		return err
	}
	total := 0
	for _, lk := range links {
		total += lk.Quantity
	}
	for i := range links {
		lk := &links[i]
		pct := 0.0
		if total > 0 {
			pct = float64(lk.Quantity) / float64(total) * 100
		}
		if pct == lk.PctOfPen {
			continue
		}
		lk.PctOfPen = pct
		lk.Touch()
		if err := s.links.Update(ctx, lk); err != nil {
			return err
		}
	}
	return nil
}
