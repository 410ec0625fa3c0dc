package allocation

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/tx"
	"confina/internal/core/types"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/herd/lot"
	"confina/pkg/logger"
	"confina/pkg/numerator"
)

// Auditor records applied allocations for the audit trail.
type Auditor interface {
	RecordApplied(ctx context.Context, a *Allocation) error
}

// CreateInput describes a new rateio draft.
type CreateInput struct {
	CostType    CostType
	Method      Method
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalAmount types.Money

	// LotIDs restricts the targets; empty means every active lot.
	LotIDs []id.ID
}

// Service drives the rateio lifecycle: draft → approved → applied.
type Service struct {
	repo      Repository
	lots      lot.Repository
	ledger    *ledger.Service
	numerator numerator.Generator
	txManager tx.Manager
	auditor   Auditor
}

// NewService creates an allocation service. auditor may be nil.
func NewService(repo Repository, lots lot.Repository, ledgerSvc *ledger.Service, gen numerator.Generator, txManager tx.Manager, auditor Auditor) *Service {
	return &Service{
		repo:      repo,
		lots:      lots,
		ledger:    ledgerSvc,
		numerator: gen,
		txManager: txManager,
		auditor:   auditor,
	}
}

// CreateDraft snapshots the targets' basis values and distributes the total.
func (s *Service) CreateDraft(ctx context.Context, in CreateInput) (*Allocation, error) {
	a := NewAllocation(in.CostType, in.Method, in.PeriodStart, in.PeriodEnd, in.TotalAmount)
	if err := a.Validate(ctx); err != nil {
		return nil, err
	}

	targets, err := s.buildTargets(ctx, in)
	if err != nil {
		return nil, err
	}

	lines, err := Distribute(in.TotalAmount, in.Method, targets)
	if err != nil {
		return nil, err
	}
	a.Lines = lines

	number, err := s.numerator.Next(ctx, "RAT", a.Date)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	a.Number = number

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	logger.Info(ctx, "rateio draft created",
		"number", a.Number,
		"method", a.Method.String(),
		"total", a.TotalAmount.String(),
		"targets", len(a.Lines),
	)
	return a, nil
}

// OverrideLine edits one line's amount on a draft (clamped, last-writer-wins).
func (s *Service) OverrideLine(ctx context.Context, allocationID, lotID id.ID, amount types.Money) (*Allocation, error) {
	a, err := s.Get(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if err := Override(a, lotID, amount); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Approve freezes basis and amounts.
func (s *Service) Approve(ctx context.Context, allocationID id.ID) (*Allocation, error) {
	a, err := s.Get(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if err := a.TransitionTo(StatusApproved); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	logger.Info(ctx, "rateio approved", "number", a.Number)
	return a, nil
}

// Apply materializes one cost entry per line against each target lot and is
// the terminal state of the run.
func (s *Service) Apply(ctx context.Context, allocationID id.ID) (*Allocation, error) {
	a, err := s.Get(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if err := a.TransitionTo(StatusApplied); err != nil {
		return nil, err
	}

	category, costCenter := a.CostType.LedgerMapping()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for i := range a.Lines {
			line := &a.Lines[i]
			if !line.Amount.IsPositive() {
				continue
			}
			entry := ledger.NewEntry(a.PeriodEnd, category, costCenter,
				line.Amount, ledger.TargetLot, line.LotID)
			entry.Description = "rateio " + a.Number
			if err := s.ledger.Post(ctx, entry); err != nil {
				return err
			}
		}
		if err := s.repo.Update(ctx, a); err != nil {
			return err
		}
		if s.auditor != nil {
			return s.auditor.RecordApplied(ctx, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "rateio applied", "number", a.Number, "entries", len(a.Lines))
	return a, nil
}

// DeleteDraft removes a draft run. Approved and applied runs are immutable.
func (s *Service) DeleteDraft(ctx context.Context, allocationID id.ID) error {
	a, err := s.Get(ctx, allocationID)
	if err != nil {
		return err
	}
	if !a.Mutable() {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"only draft allocations can be deleted").
			WithDetail("status", string(a.Status))
	}
	return s.repo.Delete(ctx, a.ID)
}

// Get returns an allocation by id.
func (s *Service) Get(ctx context.Context, allocationID id.ID) (*Allocation, error) {
	a, err := s.repo.GetByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NewNotFound("allocation", allocationID)
	}
	return a, nil
}

// List returns allocations matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Allocation, error) {
	return s.repo.List(ctx, filter)
}

// buildTargets snapshots the basis inputs for each target lot.
func (s *Service) buildTargets(ctx context.Context, in CreateInput) ([]Target, error) {
	filter := lot.Filter{ActiveOnly: true}
	if len(in.LotIDs) > 0 {
		filter = lot.Filter{IDs: in.LotIDs}
	}
	lots, err := s.lots.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(lots))
	for i := range lots {
		l := &lots[i]
		targets = append(targets, Target{
			LotID:           l.ID,
			Heads:           l.CurrentQuantity(),
			AccumulatedCost: l.Accumulated.Total,
			HeadDays:        headDays(l, in.PeriodStart, in.PeriodEnd),
			WeightKg:        l.CurrentWeightKg(in.PeriodEnd),
		})
	}
	return targets, nil
}

// headDays is head count × days the lot spent confined inside the period.
func headDays(l *lot.Lot, from, to time.Time) int64 {
	start := l.EntryDate
	if start.Before(from) {
		start = from
	}
	end := to
	if l.SoldAt != nil && l.SoldAt.Before(to) {
		end = *l.SoldAt
	}
	if end.Before(start) {
		return 0
	}
	days := int64(end.Sub(start).Hours() / 24)
	return days * int64(l.CurrentQuantity())
}
