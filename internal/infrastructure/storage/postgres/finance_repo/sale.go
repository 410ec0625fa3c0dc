package finance_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"confina/internal/core/id"
	"confina/internal/domain/finance/sale"
	"confina/internal/infrastructure/storage/postgres"
)

const saleTable = "fin_sales"

var saleColumns = []string{
	"id", "deletion_mark", "version", "created_at", "updated_at",
	"number", "date", "comment",
	"lot_id", "quantity", "live_weight_kg", "carcass_yield_pct",
	"price_per_arroba", "gross_revenue", "buyer",
}

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	txm *postgres.TxManager
}

// NewSaleRepo creates a sale record repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{txm: txm}
}

var _ sale.Repository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(ctx context.Context, rec *sale.Record) error {
	sql, args, err := builder().
		Insert(saleTable).
		SetMap(map[string]any{
			"id":                rec.ID,
			"deletion_mark":     rec.DeletionMark,
			"version":           rec.Version,
			"created_at":        rec.CreatedAt,
			"updated_at":        rec.UpdatedAt,
			"number":            rec.Number,
			"date":              rec.Date,
			"comment":           rec.Comment,
			"lot_id":            rec.LotID,
			"quantity":          rec.Quantity,
			"live_weight_kg":    rec.LiveWeightKg,
			"carcass_yield_pct": rec.CarcassYieldPct,
			"price_per_arroba":  rec.PricePerArroba,
			"gross_revenue":     rec.GrossRevenue,
			"buyer":             rec.Buyer,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", saleTable, err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, recordID id.ID) (*sale.Record, error) {
	sql, args, err := builder().
		Select(saleColumns...).
		From(saleTable).
		Where(squirrel.Eq{"id": recordID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec sale.Record
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &rec, nil
}

func (r *SaleRepo) ListByLots(ctx context.Context, lotIDs []id.ID, from, to time.Time) ([]sale.Record, error) {
	if len(lotIDs) == 0 {
		return nil, nil
	}

	sql, args, err := builder().
		Select(saleColumns...).
		From(saleTable).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"lot_id": lotIDs}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC", "number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []sale.Record
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return records, nil
}
