// Package herd_repo provides PostgreSQL implementations for the herd domain.
package herd_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/herd/lot"
	"confina/internal/infrastructure/storage/postgres"
)

const lotTable = "herd_lots"

var lotColumns = []string{
	"id", "deletion_mark", "version",
	"number", "purchase_id",
	"entry_date", "entry_quantity", "entry_weight_kg",
	"deaths", "weight_loss_kg", "estimated_gmd",
	"status", "sold_at",
	"cost_acquisition", "cost_feed", "cost_health", "cost_freight",
	"cost_operational", "cost_other", "cost_total",
	"created_at", "updated_at",
}

// lotRow flattens Lot plus its cost snapshot for scanning.
type lotRow struct {
	ID           id.ID `db:"id"`
	DeletionMark bool  `db:"deletion_mark"`
	Version      int   `db:"version"`

	Number     string `db:"number"`
	PurchaseID id.ID  `db:"purchase_id"`

	EntryDate     time.Time `db:"entry_date"`
	EntryQuantity int       `db:"entry_quantity"`
	EntryWeightKg float64   `db:"entry_weight_kg"`

	Deaths       int     `db:"deaths"`
	WeightLossKg float64 `db:"weight_loss_kg"`
	EstimatedGMD float64 `db:"estimated_gmd"`

	Status lot.Status `db:"status"`
	SoldAt *time.Time `db:"sold_at"`

	CostAcquisition types.Money `db:"cost_acquisition"`
	CostFeed        types.Money `db:"cost_feed"`
	CostHealth      types.Money `db:"cost_health"`
	CostFreight     types.Money `db:"cost_freight"`
	CostOperational types.Money `db:"cost_operational"`
	CostOther       types.Money `db:"cost_other"`
	CostTotal       types.Money `db:"cost_total"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r lotRow) toModel() lot.Lot {
	l := lot.Lot{
		Number:        r.Number,
		PurchaseID:    r.PurchaseID,
		EntryDate:     r.EntryDate,
		EntryQuantity: r.EntryQuantity,
		EntryWeightKg: r.EntryWeightKg,
		Deaths:        r.Deaths,
		WeightLossKg:  r.WeightLossKg,
		EstimatedGMD:  r.EstimatedGMD,
		Status:        r.Status,
		SoldAt:        r.SoldAt,
		Accumulated: lot.CostSnapshot{
			Acquisition: r.CostAcquisition,
			Feed:        r.CostFeed,
			Health:      r.CostHealth,
			Freight:     r.CostFreight,
			Operational: r.CostOperational,
			Other:       r.CostOther,
			Total:       r.CostTotal,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	l.ID = r.ID
	l.DeletionMark = r.DeletionMark
	l.Version = r.Version
	return l
}

func lotValues(l *lot.Lot) map[string]any {
	return map[string]any{
		"id":               l.ID,
		"deletion_mark":    l.DeletionMark,
		"version":          l.Version,
		"number":           l.Number,
		"purchase_id":      l.PurchaseID,
		"entry_date":       l.EntryDate,
		"entry_quantity":   l.EntryQuantity,
		"entry_weight_kg":  l.EntryWeightKg,
		"deaths":           l.Deaths,
		"weight_loss_kg":   l.WeightLossKg,
		"estimated_gmd":    l.EstimatedGMD,
		"status":           l.Status,
		"sold_at":          l.SoldAt,
		"cost_acquisition": l.Accumulated.Acquisition,
		"cost_feed":        l.Accumulated.Feed,
		"cost_health":      l.Accumulated.Health,
		"cost_freight":     l.Accumulated.Freight,
		"cost_operational": l.Accumulated.Operational,
		"cost_other":       l.Accumulated.Other,
		"cost_total":       l.Accumulated.Total,
		"created_at":       l.CreatedAt,
		"updated_at":       l.UpdatedAt,
	}
}

// LotRepo implements lot.Repository.
type LotRepo struct {
	txm *postgres.TxManager
}

// NewLotRepo creates a lot repository.
func NewLotRepo(txm *postgres.TxManager) *LotRepo {
	return &LotRepo{txm: txm}
}

var _ lot.Repository = (*LotRepo)(nil)

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new lot.
func (r *LotRepo) Create(ctx context.Context, l *lot.Lot) error {
	sql, args, err := builder().
		Insert(lotTable).
		SetMap(lotValues(l)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", lotTable, err)
	}
	return nil
}

// Update modifies a lot with optimistic locking. The caller's Touch already
// incremented the in-memory version; the WHERE matches the previous one.
func (r *LotRepo) Update(ctx context.Context, l *lot.Lot) error {
	values := lotValues(l)
	delete(values, "id")
	delete(values, "version")

	sql, args, err := builder().
		Update(lotTable).
		SetMap(values).
		Set("version", l.Version).
		Where(squirrel.Eq{"id": l.ID}).
		Where(squirrel.Eq{"version": l.Version - 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", lotTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(lotTable, l.ID.String())
	}
	return nil
}

// GetByID returns a lot or nil when absent.
func (r *LotRepo) GetByID(ctx context.Context, lotID id.ID) (*lot.Lot, error) {
	sql, args, err := builder().
		Select(lotColumns...).
		From(lotTable).
		Where(squirrel.Eq{"id": lotID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row lotRow
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}

	l := row.toModel()
	return &l, nil
}

// List returns lots matching the filter, newest entry first.
func (r *LotRepo) List(ctx context.Context, filter lot.Filter) ([]lot.Lot, error) {
	q := builder().
		Select(lotColumns...).
		From(lotTable).
		OrderBy("entry_date DESC", "number DESC")

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"status": lot.StatusActive})
	}
	if filter.ActivityFrom != nil && filter.ActivityTo != nil {
		q = q.Where(squirrel.LtOrEq{"entry_date": *filter.ActivityTo}).
			Where(squirrel.Or{
				squirrel.Eq{"sold_at": nil},
				squirrel.GtOrEq{"sold_at": *filter.ActivityFrom},
			})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []lotRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}

	lots := make([]lot.Lot, len(rows))
	for i := range rows {
		lots[i] = rows[i].toModel()
	}
	return lots, nil
}

// AccumulateCost atomically rolls an amount into the lot's snapshot columns.
func (r *LotRepo) AccumulateCost(ctx context.Context, lotID id.ID, category ledger.Category, amount types.Money) error {
	column := costColumn(category)

	sql := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s + $1,
		    cost_total = cost_total + $1,
		    updated_at = now()
		WHERE id = $2`, lotTable, column, column)

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, amount, lotID)
	if err != nil {
		return fmt.Errorf("accumulate cost: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("lot", lotID)
	}
	return nil
}

// costColumn mirrors lot.CostSnapshot.Add.
func costColumn(category ledger.Category) string {
	switch category {
	case ledger.CategoryAnimalPurchase:
		return "cost_acquisition"
	case ledger.CategoryFeed:
		return "cost_feed"
	case ledger.CategoryHealth:
		return "cost_health"
	case ledger.CategoryFreight:
		return "cost_freight"
	case ledger.CategoryOperational:
		return "cost_operational"
	default:
		return "cost_other"
	}
}
