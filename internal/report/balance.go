package report

import (
	"github.com/shopspring/decimal"

	"tilikirja/internal/models"
)

// BalanceCheck totals all debits and credits across the journal. The
// system never enforces double-entry balance on writes; this is the
// separate, optional pass for callers who want to inspect it.
type BalanceCheck struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// Balanced reports whether total debits equal total credits.
func (b BalanceCheck) Balanced() bool {
	return b.TotalDebit.Equal(b.TotalCredit)
}

// Difference returns credits minus debits.
func (b BalanceCheck) Difference() decimal.Decimal {
	return b.TotalCredit.Sub(b.TotalDebit)
}

// CheckBalance sums debits and credits over all postings, including
// ones with dangling account references.
func CheckBalance(entries []models.JournalEntry) BalanceCheck {
	var check BalanceCheck
	check.TotalDebit = decimal.Zero
	check.TotalCredit = decimal.Zero
	for _, e := range entries {
		check.TotalDebit = check.TotalDebit.Add(e.Debit)
		check.TotalCredit = check.TotalCredit.Add(e.Credit)
	}
	return check
}
