package herd_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/domain/herd/pen"
	"confina/internal/infrastructure/storage/postgres"
)

const (
	penTable  = "herd_pens"
	linkTable = "herd_pen_links"
)

var penColumns = []string{"id", "deletion_mark", "version", "code", "capacity", "location"}

var linkColumns = []string{
	"id", "deletion_mark", "version",
	"lot_id", "pen_id", "quantity", "pct_of_lot", "pct_of_pen",
	"allocated_at", "removed_at", "status",
}

// PenRepo implements pen.Repository.
type PenRepo struct {
	txm *postgres.TxManager
}

// NewPenRepo creates a pen repository.
func NewPenRepo(txm *postgres.TxManager) *PenRepo {
	return &PenRepo{txm: txm}
}

var _ pen.Repository = (*PenRepo)(nil)

func (r *PenRepo) Create(ctx context.Context, p *pen.Pen) error {
	sql, args, err := builder().
		Insert(penTable).
		SetMap(map[string]any{
			"id":            p.ID,
			"deletion_mark": p.DeletionMark,
			"version":       p.Version,
			"code":          p.Code,
			"capacity":      p.Capacity,
			"location":      p.Location,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", penTable, err)
	}
	return nil
}

func (r *PenRepo) Update(ctx context.Context, p *pen.Pen) error {
	sql, args, err := builder().
		Update(penTable).
		SetMap(map[string]any{
			"deletion_mark": p.DeletionMark,
			"code":          p.Code,
			"capacity":      p.Capacity,
			"location":      p.Location,
			"version":       p.Version,
		}).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": p.Version - 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", penTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(penTable, p.ID.String())
	}
	return nil
}

func (r *PenRepo) GetByID(ctx context.Context, penID id.ID) (*pen.Pen, error) {
	sql, args, err := builder().
		Select(penColumns...).
		From(penTable).
		Where(squirrel.Eq{"id": penID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p pen.Pen
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pen: %w", err)
	}
	return &p, nil
}

func (r *PenRepo) List(ctx context.Context) ([]pen.Pen, error) {
	sql, args, err := builder().
		Select(penColumns...).
		From(penTable).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var pens []pen.Pen
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &pens, sql, args...); err != nil {
		return nil, fmt.Errorf("list pens: %w", err)
	}
	return pens, nil
}

// LinkRepo implements pen.LinkRepository.
type LinkRepo struct {
	txm *postgres.TxManager
}

// NewLinkRepo creates a lot-pen link repository.
func NewLinkRepo(txm *postgres.TxManager) *LinkRepo {
	return &LinkRepo{txm: txm}
}

var _ pen.LinkRepository = (*LinkRepo)(nil)

func linkValues(l *pen.Link) map[string]any {
	return map[string]any{
		"id":            l.ID,
		"deletion_mark": l.DeletionMark,
		"version":       l.Version,
		"lot_id":        l.LotID,
		"pen_id":        l.PenID,
		"quantity":      l.Quantity,
		"pct_of_lot":    l.PctOfLot,
		"pct_of_pen":    l.PctOfPen,
		"allocated_at":  l.AllocatedAt,
		"removed_at":    l.RemovedAt,
		"status":        l.Status,
	}
}

func (r *LinkRepo) Create(ctx context.Context, link *pen.Link) error {
	sql, args, err := builder().
		Insert(linkTable).
		SetMap(linkValues(link)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", linkTable, err)
	}
	return nil
}

func (r *LinkRepo) Update(ctx context.Context, link *pen.Link) error {
	values := linkValues(link)
	delete(values, "id")
	delete(values, "version")

	sql, args, err := builder().
		Update(linkTable).
		SetMap(values).
		Set("version", link.Version).
		Where(squirrel.Eq{"id": link.ID}).
		Where(squirrel.Eq{"version": link.Version - 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", linkTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(linkTable, link.ID.String())
	}
	return nil
}

func (r *LinkRepo) GetByID(ctx context.Context, linkID id.ID) (*pen.Link, error) {
	sql, args, err := builder().
		Select(linkColumns...).
		From(linkTable).
		Where(squirrel.Eq{"id": linkID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var link pen.Link
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &link, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	return &link, nil
}

func (r *LinkRepo) ListActiveByLot(ctx context.Context, lotID id.ID) ([]pen.Link, error) {
	return r.list(ctx, squirrel.Eq{"lot_id": lotID, "status": pen.LinkActive})
}

func (r *LinkRepo) ListActiveByPen(ctx context.Context, penID id.ID) ([]pen.Link, error) {
	return r.list(ctx, squirrel.Eq{"pen_id": penID, "status": pen.LinkActive})
}

func (r *LinkRepo) ListByPenOverlapping(ctx context.Context, penID id.ID, from, to time.Time) ([]pen.Link, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"pen_id": penID},
		squirrel.LtOrEq{"allocated_at": to},
		squirrel.Or{
			squirrel.Eq{"removed_at": nil},
			squirrel.GtOrEq{"removed_at": from},
		},
	})
}

func (r *LinkRepo) list(ctx context.Context, where squirrel.Sqlizer) ([]pen.Link, error) {
	sql, args, err := builder().
		Select(linkColumns...).
		From(linkTable).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(where).
		OrderBy("allocated_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var links []pen.Link
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &links, sql, args...); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}
