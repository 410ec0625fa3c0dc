// Package finance_repo provides PostgreSQL implementations for the finance
// domain.
package finance_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/domain/finance/ledger"
	"confina/internal/infrastructure/storage/postgres"
)

const entryTable = "fin_cost_entries"

var entryColumns = []string{
	"id", "deletion_mark", "version", "created_at", "updated_at",
	"number", "date", "comment",
	"category", "cost_center", "amount", "impacts_cash_flow",
	"target_type", "target_id", "description",
	"voided", "reversal_of",
}

// EntryRepo implements ledger.Repository.
type EntryRepo struct {
	txm *postgres.TxManager
}

// NewEntryRepo creates a cost entry repository.
func NewEntryRepo(txm *postgres.TxManager) *EntryRepo {
	return &EntryRepo{txm: txm}
}

var _ ledger.Repository = (*EntryRepo)(nil)

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *EntryRepo) Create(ctx context.Context, e *ledger.Entry) error {
	sql, args, err := builder().
		Insert(entryTable).
		SetMap(map[string]any{
			"id":                e.ID,
			"deletion_mark":     e.DeletionMark,
			"version":           e.Version,
			"created_at":        e.CreatedAt,
			"updated_at":        e.UpdatedAt,
			"number":            e.Number,
			"date":              e.Date,
			"comment":           e.Comment,
			"category":          e.Category,
			"cost_center":       e.CostCenter,
			"amount":            e.Amount,
			"impacts_cash_flow": e.ImpactsCashFlow,
			"target_type":       e.TargetType,
			"target_id":         e.TargetID,
			"description":       e.Description,
			"voided":            e.Voided,
			"reversal_of":       e.ReversalOf,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", entryTable, err)
	}
	return nil
}

func (r *EntryRepo) GetByID(ctx context.Context, entryID id.ID) (*ledger.Entry, error) {
	sql, args, err := builder().
		Select(entryColumns...).
		From(entryTable).
		Where(squirrel.Eq{"id": entryID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e ledger.Entry
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &e, nil
}

// List returns entries matching the filter, oldest first. Voided originals
// and their reversals are excluded together unless IncludeVoided is set, so
// aggregates over the result never see the netting pair.
func (r *EntryRepo) List(ctx context.Context, filter ledger.Filter) ([]ledger.Entry, error) {
	q := builder().
		Select(entryColumns...).
		From(entryTable).
		OrderBy("date ASC", "number ASC")

	if filter.TargetType != "" {
		q = q.Where(squirrel.Eq{"target_type": filter.TargetType})
	}
	if len(filter.TargetIDs) > 0 {
		q = q.Where(squirrel.Eq{"target_id": filter.TargetIDs})
	}
	if len(filter.CostCenters) > 0 {
		q = q.Where(squirrel.Eq{"cost_center": filter.CostCenters})
	}
	if len(filter.Categories) > 0 {
		q = q.Where(squirrel.Eq{"category": filter.Categories})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.To})
	}
	if filter.CashImpactingOnly {
		q = q.Where(squirrel.Eq{"impacts_cash_flow": true})
	}
	if !filter.IncludeVoided {
		q = q.Where(squirrel.Eq{"voided": false}).
			Where(squirrel.Eq{"reversal_of": nil})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []ledger.Entry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// SetVoided flags an entry as voided with optimistic locking.
func (r *EntryRepo) SetVoided(ctx context.Context, entryID id.ID, version int) error {
	sql, args, err := builder().
		Update(entryTable).
		Set("voided", true).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entryID}).
		Where(squirrel.Eq{"version": version}).
		Where(squirrel.Eq{"voided": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("void entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(entryTable, entryID.String())
	}
	return nil
}
