// Package sheets mirrors household expenses to an external ledger
// spreadsheet. The HTTP server never talks to it directly; the sync worker
// feeds it from expense events.
package sheets

import "context"

// LedgerRow is one exported expense line.
type LedgerRow struct {
	Date        string
	Place       string
	Description string
	Amount      float64
	PaidBy      string
	SharedWith  string
	Action      string
}

// LedgerWriter appends rows to the ledger.
type LedgerWriter interface {
	AppendRow(ctx context.Context, row LedgerRow) error
}
