package lot

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/core/units"
	"confina/internal/domain/finance/ledger"
	"confina/pkg/logger"
	"confina/pkg/numerator"
)

// ReceiveInput describes a lot reception.
type ReceiveInput struct {
	PurchaseID    id.ID
	EntryDate     time.Time
	Quantity      int
	WeightKg      float64
	EstimatedGMD  float64
	PurchaseValue types.Money
	FreightValue  types.Money
}

// Service provides lot lifecycle operations.
type Service struct {
	repo      Repository
	ledger    *ledger.Service
	numerator numerator.Generator
}

// NewService creates a lot service.
func NewService(repo Repository, ledgerSvc *ledger.Service, gen numerator.Generator) *Service {
	return &Service{repo: repo, ledger: ledgerSvc, numerator: gen}
}

// Receive creates a lot and posts its acquisition and freight entries.
func (s *Service) Receive(ctx context.Context, in ReceiveInput) (*Lot, error) {
	l := New(in.PurchaseID, in.EntryDate, in.Quantity, in.WeightKg, in.EstimatedGMD)
	if err := l.Validate(ctx); err != nil {
		return nil, err
	}
	if !in.PurchaseValue.IsPositive() {
		return nil, apperror.NewValidation("purchase value must be positive").
			WithDetail("field", "purchaseValue")
	}

	number, err := s.numerator.Next(ctx, "LOT", in.EntryDate)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	l.Number = number

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	purchase := ledger.NewEntry(in.EntryDate, ledger.CategoryAnimalPurchase,
		ledger.CostCenterAcquisition, in.PurchaseValue, ledger.TargetLot, l.ID)
	purchase.Description = "compra de animais " + l.Number
	if err := s.ledger.Post(ctx, purchase); err != nil {
		return nil, err
	}

	if in.FreightValue.IsPositive() {
		freight := ledger.NewEntry(in.EntryDate, ledger.CategoryFreight,
			ledger.CostCenterAcquisition, in.FreightValue, ledger.TargetLot, l.ID)
		freight.Description = "frete de entrada " + l.Number
		if err := s.ledger.Post(ctx, freight); err != nil {
			return nil, err
		}
	}

	logger.Info(ctx, "lot received",
		"number", l.Number,
		"heads", in.Quantity,
		"weight_kg", in.WeightKg,
	)
	return s.repo.GetByID(ctx, l.ID)
}

// RecordDeaths registers head losses. The write-off value is the average
// accumulated cost of the dead heads, posted as a non-cash mortality entry
// so it hits the DRE but never cash flow.
func (s *Service) RecordDeaths(ctx context.Context, lotID id.ID, count int, date time.Time) error {
	if count <= 0 {
		return apperror.NewValidation("death count must be positive").
			WithDetail("field", "count")
	}

	l, err := s.getActive(ctx, lotID)
	if err != nil {
		return err
	}
	if count > l.CurrentQuantity() {
		return apperror.NewValidation("death count exceeds current head count").
			WithDetail("current", l.CurrentQuantity()).
			WithDetail("count", count)
	}

	amount := l.AverageCostPerHead().Mul(types.NewMoney(float64(count)))

	l.Deaths += count
	l.Touch()
	if err := s.repo.Update(ctx, l); err != nil {
		return err
	}

	if amount.IsPositive() {
		entry := ledger.NewEntry(date, ledger.CategoryMortality,
			ledger.CostCenterFattening, amount, ledger.TargetLot, l.ID)
		entry.Description = "baixa por mortalidade"
		if err := s.ledger.Post(ctx, entry); err != nil {
			return err
		}
	}

	logger.Warn(ctx, "deaths recorded", "lot", l.Number, "count", count, "write_off", amount.String())
	return nil
}

// RecordWeightLoss registers a non-cash weight shrinkage, valued at the
// lot's current average cost per arroba.
func (s *Service) RecordWeightLoss(ctx context.Context, lotID id.ID, lossKg float64, yieldPct float64, date time.Time) error {
	if lossKg <= 0 {
		return apperror.NewValidation("weight loss must be positive").
			WithDetail("field", "lossKg")
	}

	l, err := s.getActive(ctx, lotID)
	if err != nil {
		return err
	}

	totalArrobas := units.ArrobasFromLive(l.CurrentWeightKg(date), yieldPct)
	costPerArroba := units.CostPerArroba(l.Accumulated.Total, totalArrobas)
	amount := units.GrossValue(units.ArrobasFromLive(lossKg, yieldPct), costPerArroba)

	l.WeightLossKg += lossKg
	l.Touch()
	if err := s.repo.Update(ctx, l); err != nil {
		return err
	}

	if amount.IsPositive() {
		entry := ledger.NewEntry(date, ledger.CategoryWeightLoss,
			ledger.CostCenterFattening, amount, ledger.TargetLot, l.ID)
		entry.Description = "quebra de peso"
		if err := s.ledger.Post(ctx, entry); err != nil {
			return err
		}
	}

	logger.Warn(ctx, "weight loss recorded", "lot", l.Number, "kg", lossKg, "write_off", amount.String())
	return nil
}

// Get returns a lot by id.
func (s *Service) Get(ctx context.Context, lotID id.ID) (*Lot, error) {
	l, err := s.repo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if l == nil || l.DeletionMark {
		return nil, apperror.NewNotFound("lot", lotID)
	}
	return l, nil
}

// List returns lots matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Lot, error) {
	return s.repo.List(ctx, filter)
}

// Delete soft-deletes a lot. Lots referenced by financial history keep
// their ledger entries; the mark only hides them from active listings.
func (s *Service) Delete(ctx context.Context, lotID id.ID) error {
	l, err := s.Get(ctx, lotID)
	if err != nil {
		return err
	}
	l.MarkDeleted()
	l.Touch()
	return s.repo.Update(ctx, l)
}

func (s *Service) getActive(ctx context.Context, lotID id.ID) (*Lot, error) {
	l, err := s.Get(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusActive {
		return nil, apperror.NewConflict("lot is not active").
			WithDetail("lot", l.Number).
			WithDetail("status", string(l.Status))
	}
	return l, nil
}
