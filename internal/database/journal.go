package database

import (
	"fmt"

	"tilikirja/internal/models"
)

// CreateJournalEntry appends a posting to the journal. Double-entry
// balance is not checked here; see report.CheckBalance.
func (db *DB) CreateJournalEntry(e models.JournalEntry) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO journal_entries (date, account_id, description, debit, credit, vat)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Date, e.AccountID, e.Description, e.Debit, e.Credit, e.VAT)
	if err != nil {
		return 0, fmt.Errorf("insert journal entry: %w", err)
	}
	return result.LastInsertId()
}

// ListJournalEntries returns all postings in insertion order
func (db *DB) ListJournalEntries() ([]models.JournalEntry, error) {
	rows, err := db.Query(`
		SELECT id, date, account_id, description, debit, credit, vat, created_at
		FROM journal_entries ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.AccountID, &e.Description,
			&e.Debit, &e.Credit, &e.VAT, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
