package sheets

import (
	"context"

	"moneta/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerExporter mirrors a full ledger snapshot to an external sheet.
	// The export replaces the previous snapshot, so a missed message is
	// healed by the next one.
	LedgerExporter interface {
		ExportSnapshot(ctx context.Context, txs []core.Transaction) error
	}
)
