package sale

import (
	"context"

	"confina/internal/core/apperror"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/herd/lot"
	"confina/pkg/logger"
	"confina/pkg/numerator"
)

// Service registers sales and their revenue entries.
type Service struct {
	repo      Repository
	lots      lot.Repository
	ledger    *ledger.Service
	numerator numerator.Generator
}

// NewService creates a sale service.
func NewService(repo Repository, lots lot.Repository, ledgerSvc *ledger.Service, gen numerator.Generator) *Service {
	return &Service{repo: repo, lots: lots, ledger: ledgerSvc, numerator: gen}
}

// Register stores the sale, posts its revenue entry and closes the lot when
// the last heads leave the yard.
func (s *Service) Register(ctx context.Context, r *Record) error {
	if err := r.Validate(ctx); err != nil {
		return err
	}

	l, err := s.lots.GetByID(ctx, r.LotID)
	if err != nil {
		return err
	}
	if l == nil || l.DeletionMark {
		return apperror.NewNotFound("lot", r.LotID)
	}
	if r.Quantity > l.CurrentQuantity() {
		return apperror.NewValidation("sale quantity exceeds current head count").
			WithDetail("current", l.CurrentQuantity()).
			WithDetail("quantity", r.Quantity)
	}

	number, err := s.numerator.Next(ctx, "VND", r.Date)
	if err != nil {
		return apperror.NewInternal(err)
	}
	r.Number = number

	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}

	revenue := ledger.NewEntry(r.Date, ledger.CategorySaleRevenue,
		ledger.CostCenterRevenue, r.GrossRevenue, ledger.TargetLot, r.LotID)
	revenue.Description = "venda " + r.Number
	if err := s.ledger.Post(ctx, revenue); err != nil {
		return err
	}

	if r.Quantity == l.CurrentQuantity() {
		l.MarkSold(r.Date)
		if err := s.lots.Update(ctx, l); err != nil {
			return err
		}
	}

	logger.Info(ctx, "sale registered",
		"number", r.Number,
		"lot", l.Number,
		"heads", r.Quantity,
		"revenue", r.GrossRevenue.String(),
	)
	return nil
}
