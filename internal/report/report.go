// Package report aggregates journal postings into income-statement and
// balance-sheet buckets.
package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"tilikirja/internal/models"
)

// Bucket is the report section an account's postings contribute to.
type Bucket int

const (
	BucketBalance Bucket = iota
	BucketIncome
)

// Classifier decides which bucket an account belongs to.
type Classifier func(models.Account) Bucket

// ByLeadingDigit is the default classification: account numbers
// starting with 3 or 4 are income/expense accounts, everything else is
// balance sheet.
func ByLeadingDigit(a models.Account) Bucket {
	if strings.HasPrefix(a.Number, "3") || strings.HasPrefix(a.Number, "4") {
		return BucketIncome
	}
	return BucketBalance
}

// Report maps account display keys ("<number> <name>") to net movement
// (credits minus debits). Accounts without postings never appear.
type Report struct {
	Income  map[string]decimal.Decimal
	Balance map[string]decimal.Decimal
}

// Aggregate groups postings by account and sums net movement per
// account into the bucket chosen by classify (ByLeadingDigit when nil).
// Postings whose account id does not resolve are skipped, not an
// error. VAT is carried on entries but not aggregated here.
func Aggregate(entries []models.JournalEntry, accounts []models.Account, classify Classifier) Report {
	if classify == nil {
		classify = ByLeadingDigit
	}

	byID := make(map[int64]models.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	rep := Report{
		Income:  make(map[string]decimal.Decimal),
		Balance: make(map[string]decimal.Decimal),
	}

	for _, e := range entries {
		acc, ok := byID[e.AccountID]
		if !ok {
			continue
		}

		target := rep.Balance
		if classify(acc) == BucketIncome {
			target = rep.Income
		}

		key := acc.DisplayKey()
		target[key] = target[key].Add(e.NetMovement())
	}
	return rep
}
