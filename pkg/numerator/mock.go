package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Mock is an in-memory Generator for tests and seeding.
type Mock struct {
	mu   sync.Mutex
	seqs map[string]int64
}

// NewMock creates a mock generator starting every sequence at 1.
func NewMock() *Mock {
	return &Mock{seqs: make(map[string]int64)}
}

// Next implements Generator.
func (m *Mock) Next(_ context.Context, prefix string, date time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s_%d", prefix, date.Year())
	m.seqs[key]++
	return fmt.Sprintf("%s-%d-%05d", prefix, date.Year(), m.seqs[key]), nil
}

var _ Generator = (*Mock)(nil)
