package sheets

import (
	"context"
	"sync"
)

// MemoryLedger is an in-memory LedgerWriter for tests and local development.
type MemoryLedger struct {
	mu   sync.Mutex
	rows []LedgerRow
}

var _ LedgerWriter = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (m *MemoryLedger) AppendRow(_ context.Context, row LedgerRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, row)
	return nil
}

// Rows returns a copy of everything appended so far.
func (m *MemoryLedger) Rows() []LedgerRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LedgerRow, len(m.rows))
	copy(out, m.rows)
	return out
}
