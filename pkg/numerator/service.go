// Package numerator provides document auto-numbering ("LOT-2026-00001").
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Generator produces the next document number for a prefix.
type Generator interface {
	// Next returns the next number formatted as PREFIX-YYYY-NNNNN.
	// Sequences are scoped per prefix and calendar year.
	Next(ctx context.Context, prefix string, date time.Time) (string, error)
}

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPDATE ... RETURNING for every number.
	// Guarantees sequential numbers without gaps. Suitable for
	// accounting documents.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Faster, but may leave gaps after restarts. Suitable for
	// internal documents.
	StrategyCached
)

// Querier is the database seam; satisfied by pgxpool.Pool and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service implements Generator against a sys_sequences table.
type Service struct {
	querier   Querier
	strategy  Strategy
	rangeSize int64

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a strict-strategy numbering service.
func New(querier Querier) *Service {
	return &Service{
		querier:   querier,
		strategy:  StrategyStrict,
		rangeSize: 50,
		ranges:    make(map[string]*cachedRange),
	}
}

// NewCached creates a range-caching numbering service.
func NewCached(querier Querier, rangeSize int64) *Service {
	if rangeSize <= 0 {
		rangeSize = 50
	}
	return &Service{
		querier:   querier,
		strategy:  StrategyCached,
		rangeSize: rangeSize,
		ranges:    make(map[string]*cachedRange),
	}
}

// Next implements Generator.
func (s *Service) Next(ctx context.Context, prefix string, date time.Time) (string, error) {
	year := date.Year()
	key := fmt.Sprintf("%s_%d", prefix, year)

	var seq int64
	var err error
	switch s.strategy {
	case StrategyCached:
		seq, err = s.nextCached(ctx, key)
	default:
		seq, err = s.nextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq), nil
}

func (s *Service) nextStrict(ctx context.Context, key string) (int64, error) {
	return s.advance(ctx, key, 1)
}

func (s *Service) nextCached(ctx context.Context, key string) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	r, ok := s.ranges[key]
	if !ok || r.current >= r.max {
		newMax, err := s.advance(ctx, key, s.rangeSize)
		if err != nil {
			return 0, err
		}
		r = &cachedRange{current: newMax - s.rangeSize, max: newMax}
		s.ranges[key] = r
	}

	r.current++
	return r.current, nil
}

// advance atomically increments the sequence and returns its new value.
func (s *Service) advance(ctx context.Context, key string, by int64) (int64, error) {
	const q = `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
		RETURNING current_val`

	var val int64
	if err := s.querier.QueryRow(ctx, q, key, by).Scan(&val); err != nil {
		return 0, fmt.Errorf("advance sequence %s: %w", key, err)
	}
	return val, nil
}

var _ Generator = (*Service)(nil)
