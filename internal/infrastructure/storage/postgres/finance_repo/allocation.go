package finance_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/allocation"
	"confina/internal/infrastructure/storage/postgres"
)

const (
	allocationTable = "fin_allocations"
	lineTable       = "fin_allocation_lines"
)

var allocationColumns = []string{
	"id", "deletion_mark", "version", "created_at", "updated_at",
	"number", "date", "comment",
	"cost_type", "method", "period_start", "period_end",
	"total_amount", "status",
}

// allocationRow is the header without lines.
type allocationRow struct {
	ID           id.ID     `db:"id"`
	DeletionMark bool      `db:"deletion_mark"`
	Version      int       `db:"version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	Number  string    `db:"number"`
	Date    time.Time `db:"date"`
	Comment string    `db:"comment"`

	CostType allocation.CostType `db:"cost_type"`
	Method   allocation.Method   `db:"method"`

	PeriodStart time.Time `db:"period_start"`
	PeriodEnd   time.Time `db:"period_end"`

	TotalAmount types.Money       `db:"total_amount"`
	Status      allocation.Status `db:"status"`
}

func (r allocationRow) toModel() allocation.Allocation {
	a := allocation.Allocation{
		CostType:    r.CostType,
		Method:      r.Method,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		TotalAmount: r.TotalAmount,
		Status:      r.Status,
	}
	a.ID = r.ID
	a.DeletionMark = r.DeletionMark
	a.Version = r.Version
	a.CreatedAt = r.CreatedAt
	a.UpdatedAt = r.UpdatedAt
	a.Number = r.Number
	a.Date = r.Date
	a.Comment = r.Comment
	return a
}

// lineRow adds the parent reference and ordering to allocation.Line.
type lineRow struct {
	AllocationID id.ID `db:"allocation_id"`
	LineNo       int   `db:"line_no"`

	LotID           id.ID       `db:"lot_id"`
	Heads           int         `db:"heads"`
	AccumulatedCost types.Money `db:"accumulated_cost"`
	HeadDays        int64       `db:"head_days"`
	WeightKg        float64     `db:"weight_kg"`
	Percentage      types.Money `db:"percentage"`
	Amount          types.Money `db:"amount"`
	ManualOverride  bool        `db:"manual_override"`
}

// AllocationRepo implements allocation.Repository. Lines live in a child
// table and are rewritten with the header on every update; a run has one
// line per target lot, so the rewrite stays small.
type AllocationRepo struct {
	txm *postgres.TxManager
}

// NewAllocationRepo creates an allocation repository.
func NewAllocationRepo(txm *postgres.TxManager) *AllocationRepo {
	return &AllocationRepo{txm: txm}
}

var _ allocation.Repository = (*AllocationRepo)(nil)

func allocationValues(a *allocation.Allocation) map[string]any {
	return map[string]any{
		"id":            a.ID,
		"deletion_mark": a.DeletionMark,
		"version":       a.Version,
		"created_at":    a.CreatedAt,
		"updated_at":    a.UpdatedAt,
		"number":        a.Number,
		"date":          a.Date,
		"comment":       a.Comment,
		"cost_type":     a.CostType,
		"method":        a.Method,
		"period_start":  a.PeriodStart,
		"period_end":    a.PeriodEnd,
		"total_amount":  a.TotalAmount,
		"status":        a.Status,
	}
}

func (r *AllocationRepo) Create(ctx context.Context, a *allocation.Allocation) error {
	sql, args, err := builder().
		Insert(allocationTable).
		SetMap(allocationValues(a)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", allocationTable, err)
	}
	return r.insertLines(ctx, a)
}

func (r *AllocationRepo) Update(ctx context.Context, a *allocation.Allocation) error {
	values := allocationValues(a)
	delete(values, "id")
	delete(values, "version")

	sql, args, err := builder().
		Update(allocationTable).
		SetMap(values).
		Set("version", a.Version).
		Where(squirrel.Eq{"id": a.ID}).
		Where(squirrel.Eq{"version": a.Version - 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", allocationTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(allocationTable, a.ID.String())
	}

	delSQL, delArgs, err := builder().
		Delete(lineTable).
		Where(squirrel.Eq{"allocation_id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return r.insertLines(ctx, a)
}

func (r *AllocationRepo) insertLines(ctx context.Context, a *allocation.Allocation) error {
	if len(a.Lines) == 0 {
		return nil
	}

	q := builder().
		Insert(lineTable).
		Columns("allocation_id", "line_no", "lot_id", "heads", "accumulated_cost",
			"head_days", "weight_kg", "percentage", "amount", "manual_override")
	for i := range a.Lines {
		line := &a.Lines[i]
		q = q.Values(a.ID, i, line.LotID, line.Heads, line.AccumulatedCost,
			line.HeadDays, line.WeightKg, line.Percentage, line.Amount, line.ManualOverride)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

func (r *AllocationRepo) GetByID(ctx context.Context, allocationID id.ID) (*allocation.Allocation, error) {
	sql, args, err := builder().
		Select(allocationColumns...).
		From(allocationTable).
		Where(squirrel.Eq{"id": allocationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)

	var row allocationRow
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}

	a := row.toModel()
	if err := r.loadLines(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AllocationRepo) loadLines(ctx context.Context, a *allocation.Allocation) error {
	sql, args, err := builder().
		Select("allocation_id", "line_no", "lot_id", "heads", "accumulated_cost",
			"head_days", "weight_kg", "percentage", "amount", "manual_override").
		From(lineTable).
		Where(squirrel.Eq{"allocation_id": a.ID}).
		OrderBy("line_no ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var rows []lineRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("load lines: %w", err)
	}

	a.Lines = make([]allocation.Line, len(rows))
	for i := range rows {
		a.Lines[i] = allocation.Line{
			LotID:           rows[i].LotID,
			Heads:           rows[i].Heads,
			AccumulatedCost: rows[i].AccumulatedCost,
			HeadDays:        rows[i].HeadDays,
			WeightKg:        rows[i].WeightKg,
			Percentage:      rows[i].Percentage,
			Amount:          rows[i].Amount,
			ManualOverride:  rows[i].ManualOverride,
		}
	}
	return nil
}

func (r *AllocationRepo) List(ctx context.Context, filter allocation.Filter) ([]allocation.Allocation, error) {
	q := builder().
		Select(allocationColumns...).
		From(allocationTable).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("date DESC", "number DESC")

	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.CostType != "" {
		q = q.Where(squirrel.Eq{"cost_type": filter.CostType})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []allocationRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}

	out := make([]allocation.Allocation, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
		if err := r.loadLines(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Delete hard-deletes a run and its lines.
func (r *AllocationRepo) Delete(ctx context.Context, allocationID id.ID) error {
	querier := r.txm.GetQuerier(ctx)

	delLines, lineArgs, err := builder().
		Delete(lineTable).
		Where(squirrel.Eq{"allocation_id": allocationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := querier.Exec(ctx, delLines, lineArgs...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	delSQL, delArgs, err := builder().
		Delete(allocationTable).
		Where(squirrel.Eq{"id": allocationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := querier.Exec(ctx, delSQL, delArgs...)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("allocation", allocationID)
	}
	return nil
}
