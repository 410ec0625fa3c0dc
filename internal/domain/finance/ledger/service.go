package ledger

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/tx"
	"confina/internal/core/types"
	"confina/pkg/logger"
	"confina/pkg/numerator"
)

// CostAccumulator receives per-category cost increments for a lot.
// Implemented by the lot repository; keeps this package free of a
// dependency on the herd domain.
type CostAccumulator interface {
	AccumulateCost(ctx context.Context, lotID id.ID, category Category, amount types.Money) error
}

// Service provides business operations for the cost ledger.
type Service struct {
	repo        Repository
	accumulator CostAccumulator
	numerator   numerator.Generator
	txManager   tx.Manager
}

// NewService creates a ledger service.
func NewService(repo Repository, accumulator CostAccumulator, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:        repo,
		accumulator: accumulator,
		numerator:   gen,
		txManager:   txManager,
	}
}

// Post validates, numbers and stores a cost entry. Entries against a lot
// also roll into the lot's accumulated cost snapshot.
func (s *Service) Post(ctx context.Context, entry *Entry) error {
	if err := entry.Validate(ctx); err != nil {
		return err
	}

	number, err := s.numerator.Next(ctx, "LCR", entry.Date)
	if err != nil {
		return apperror.NewInternal(err)
	}
	entry.Number = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entry); err != nil {
			return err
		}
		if entry.TargetType == TargetLot && !entry.Category.IsRevenue() && s.accumulator != nil {
			return s.accumulator.AccumulateCost(ctx, entry.TargetID, entry.Category, entry.Amount)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "cost entry posted",
		"number", entry.Number,
		"category", entry.Category,
		"amount", entry.Amount.String(),
		"cash", entry.ImpactsCashFlow,
	)
	return nil
}

// Void reverses a posted entry. The original stays in the ledger flagged as
// voided and a compensating entry is created, so period aggregates net out.
func (s *Service) Void(ctx context.Context, entryID id.ID, date time.Time) (*Entry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperror.NewNotFound("cost entry", entryID)
	}
	if entry.Voided {
		return nil, apperror.NewConflict("cost entry is already voided").
			WithDetail("id", entryID)
	}

	reversal := entry.Reversal(date)
	number, err := s.numerator.Next(ctx, "LCR", reversal.Date)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	reversal.Number = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetVoided(ctx, entry.ID, entry.Version); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, reversal); err != nil {
			return err
		}
		if entry.TargetType == TargetLot && !entry.Category.IsRevenue() && s.accumulator != nil {
			return s.accumulator.AccumulateCost(ctx, entry.TargetID, entry.Category, entry.Amount.Neg())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cost entry voided", "number", entry.Number, "reversal", reversal.Number)
	return reversal, nil
}

// List returns entries matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Entry, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperror.NewInvalidPeriod(filter.From.Format(time.DateOnly), filter.To.Format(time.DateOnly))
	}
	return s.repo.List(ctx, filter)
}
