package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one entry in the chart of accounts. Accounts are seeded
// once at startup and never modified afterwards.
type Account struct {
	ID     int64
	Number string // unique, non-empty; leading digit drives report classification
	Name   string
}

// DisplayKey is the label reports group by, e.g. "3000 Sales".
func (a Account) DisplayKey() string {
	return a.Number + " " + a.Name
}

// Receipt holds the OCR text extracted from an uploaded document.
// Text may be empty if extraction found nothing.
type Receipt struct {
	ID         int64
	Filename   string // original upload name
	StoredPath string // filename in the filestore
	Text       string
	CreatedAt  time.Time
}

// BankRow is a single imported bank-statement transaction.
// MatchedReceiptID is the only field that changes after import.
type BankRow struct {
	ID               int64
	Date             string // stored verbatim, not validated
	Description      string
	Amount           decimal.Decimal
	MatchedReceiptID *int64
	CreatedAt        time.Time
}

// Matched reports whether the row has been reconciled against a receipt.
func (b BankRow) Matched() bool {
	return b.MatchedReceiptID != nil
}

// JournalEntry is one double-entry posting line. Entries are append-only.
// The account reference is deliberately not enforced; dangling entries
// are skipped by reporting rather than rejected.
type JournalEntry struct {
	ID          int64
	Date        string
	AccountID   int64
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	VAT         decimal.Decimal
	CreatedAt   time.Time
}

// NetMovement returns credit minus debit for this posting.
func (e JournalEntry) NetMovement() decimal.Decimal {
	return e.Credit.Sub(e.Debit)
}
