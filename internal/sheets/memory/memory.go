// Package memory provides an in-process exporter used in tests and as a
// stand-in when no spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"moneta/internal/core"
	"moneta/internal/sheets"
)

type Exporter struct {
	mu       sync.Mutex
	snapshot []core.Transaction
	exports  int
}

var _ sheets.LedgerExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ExportSnapshot(_ context.Context, txs []core.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.snapshot = append([]core.Transaction(nil), txs...)
	e.exports++
	return nil
}

// Snapshot returns a copy of the last exported snapshot.
func (e *Exporter) Snapshot() []core.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]core.Transaction(nil), e.snapshot...)
}

// Exports returns how many snapshots were exported.
func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.exports
}
