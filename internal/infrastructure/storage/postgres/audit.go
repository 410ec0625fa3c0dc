package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"confina/internal/core/id"
	"confina/internal/domain/finance/allocation"
)

// AuditAction is the type of audited operation.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionApply  AuditAction = "apply"
	AuditActionVoid   AuditAction = "void"
)

// CompressionAlgo marks how the snapshot payload is stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry is one immutable audit record. Large snapshots (a rateio with
// many lines, a full statement) are zstd-compressed at rest.
type AuditEntry struct {
	ID              id.ID           `db:"id"`
	EntityType      string          `db:"entity_type"`
	EntityID        id.ID           `db:"entity_id"`
	Action          AuditAction     `db:"action"`
	Snapshot        json.RawMessage `db:"snapshot"`
	SnapshotZstd    []byte          `db:"snapshot_zstd"`
	CompressionAlgo CompressionAlgo `db:"compression_algo"`
	CreatedAt       time.Time       `db:"created_at"`
}

// AuditService writes audit records. It implements allocation.Auditor so
// applied rateio runs keep a frozen snapshot of their lines.
type AuditService struct {
	txm               *TxManager
	encoder           *zstd.Encoder
	compressThreshold int
}

var _ allocation.Auditor = (*AuditService)(nil)

// NewAuditService creates an audit service.
func NewAuditService(txm *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &AuditService{
		txm:               txm,
		encoder:           encoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// RecordApplied snapshots an applied allocation inside the caller's
// transaction.
func (s *AuditService) RecordApplied(ctx context.Context, a *allocation.Allocation) error {
	snapshot, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal allocation: %w", err)
	}
	return s.Log(ctx, AuditEntry{
		EntityType: "allocation",
		EntityID:   a.ID,
		Action:     AuditActionApply,
		Snapshot:   snapshot,
	})
}

// Log writes one audit entry.
func (s *AuditService) Log(ctx context.Context, entry AuditEntry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	entry.CompressionAlgo = CompressionNone
	if len(entry.Snapshot) > s.compressThreshold {
		entry.SnapshotZstd = s.encoder.EncodeAll(entry.Snapshot, nil)
		entry.Snapshot = nil
		entry.CompressionAlgo = CompressionZstd
	}

	const sql = `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action,
			snapshot, snapshot_zstd, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.txm.GetQuerier(ctx).Exec(ctx, sql,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action,
		entry.Snapshot, entry.SnapshotZstd, entry.CompressionAlgo, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
