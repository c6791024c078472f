// Package reconcile links imported bank rows to the receipts that
// substantiate them.
package reconcile

import (
	"fmt"
	"strings"

	"tilikirja/internal/database"
	"tilikirja/internal/models"
)

// Service performs bank-row/receipt matching.
type Service struct {
	db *database.DB
}

// New creates a reconciliation service backed by db.
func New(db *database.DB) *Service {
	return &Service{db: db}
}

// Match points a bank row at a receipt. Both records must exist;
// a missing one surfaces as database.ErrNotFound naming the id.
// Matching the same pair twice is a no-op; matching a different
// receipt overwrites the previous link. There is no unmatch.
func (s *Service) Match(bankRowID, receiptID int64) error {
	if _, err := s.db.GetBankRow(bankRowID); err != nil {
		return fmt.Errorf("match: %w", err)
	}
	if _, err := s.db.GetReceipt(receiptID); err != nil {
		return fmt.Errorf("match: %w", err)
	}
	return s.db.SetMatchedReceipt(bankRowID, receiptID)
}

// Suggest returns receipts that look like candidates for a bank row:
// their OCR text mentions the row's amount (with either decimal
// separator, since receipts are frequently in locales that print
// "12,50") or a word from the row's description. Suggestions never
// mutate anything; the match stays manual.
func (s *Service) Suggest(bankRowID int64) ([]models.Receipt, error) {
	row, err := s.db.GetBankRow(bankRowID)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}

	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}

	amount := row.Amount.Abs().StringFixed(2)
	amountComma := strings.ReplaceAll(amount, ".", ",")
	words := descriptionWords(row.Description)

	var candidates []models.Receipt
	for _, r := range receipts {
		text := strings.ToLower(r.Text)
		if text == "" {
			continue
		}
		if strings.Contains(text, amount) || strings.Contains(text, amountComma) {
			candidates = append(candidates, r)
			continue
		}
		for _, w := range words {
			if strings.Contains(text, w) {
				candidates = append(candidates, r)
				break
			}
		}
	}
	return candidates, nil
}

// descriptionWords extracts lowercase words long enough to be
// meaningful search terms.
func descriptionWords(desc string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(desc)) {
		w = strings.Trim(w, ".,;:()*")
		if len(w) >= 4 {
			words = append(words, w)
		}
	}
	return words
}
