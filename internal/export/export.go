// Package export serializes the journal to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"tilikirja/internal/models"
)

// Columns is the fixed header of the ledger export.
var Columns = []string{"date", "account", "description", "debit", "credit", "vat"}

// WriteCSV writes every posting, in the order given, with the fixed
// header. The account column is the raw account id, not the account
// number or name: the export is keyed to internal identity.
func WriteCSV(w io.Writer, entries []models.JournalEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		row := []string{
			e.Date,
			strconv.FormatInt(e.AccountID, 10),
			e.Description,
			e.Debit.StringFixed(2),
			e.Credit.StringFixed(2),
			e.VAT.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
