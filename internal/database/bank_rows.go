package database

import (
	"database/sql"
	"fmt"

	"tilikirja/internal/models"
)

// CreateBankRows inserts bank rows inside a single transaction, so an
// import call is all-or-nothing. Returns the created ids in input order.
func (db *DB) CreateBankRows(bankRows []models.BankRow) ([]int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin bank row insert: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(bankRows))
	for _, b := range bankRows {
		result, err := tx.Exec(`
			INSERT INTO bank_rows (date, description, amount) VALUES (?, ?, ?)
		`, b.Date, b.Description, b.Amount)
		if err != nil {
			return nil, fmt.Errorf("insert bank row: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("bank row id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bank rows: %w", err)
	}
	return ids, nil
}

// GetBankRow returns a single bank row by ID
func (db *DB) GetBankRow(id int64) (models.BankRow, error) {
	var b models.BankRow
	var matched sql.NullInt64
	err := db.QueryRow(`
		SELECT id, date, description, amount, matched_receipt_id, created_at
		FROM bank_rows WHERE id = ?
	`, id).Scan(&b.ID, &b.Date, &b.Description, &b.Amount, &matched, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return b, fmt.Errorf("bank row %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return b, fmt.Errorf("query bank row: %w", err)
	}
	if matched.Valid {
		b.MatchedReceiptID = &matched.Int64
	}
	return b, nil
}

// ListBankRows returns all bank rows in import order
func (db *DB) ListBankRows() ([]models.BankRow, error) {
	rows, err := db.Query(`
		SELECT id, date, description, amount, matched_receipt_id, created_at
		FROM bank_rows ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query bank rows: %w", err)
	}
	defer rows.Close()

	var bankRows []models.BankRow
	for rows.Next() {
		var b models.BankRow
		var matched sql.NullInt64
		if err := rows.Scan(&b.ID, &b.Date, &b.Description, &b.Amount, &matched, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bank row: %w", err)
		}
		if matched.Valid {
			b.MatchedReceiptID = &matched.Int64
		}
		bankRows = append(bankRows, b)
	}
	return bankRows, rows.Err()
}

// SetMatchedReceipt points a bank row at a receipt. Re-matching
// overwrites the previous value.
func (db *DB) SetMatchedReceipt(bankRowID, receiptID int64) error {
	_, err := db.Exec(`
		UPDATE bank_rows SET matched_receipt_id = ? WHERE id = ?
	`, receiptID, bankRowID)
	if err != nil {
		return fmt.Errorf("set matched receipt: %w", err)
	}
	return nil
}
