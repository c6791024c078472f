package database

import (
	"database/sql"
	"fmt"

	"tilikirja/internal/models"
)

// CreateReceipt inserts a new receipt and returns its id
func (db *DB) CreateReceipt(r models.Receipt) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO receipts (filename, stored_path, text) VALUES (?, ?, ?)
	`, r.Filename, r.StoredPath, r.Text)
	if err != nil {
		return 0, fmt.Errorf("insert receipt: %w", err)
	}
	return result.LastInsertId()
}

// GetReceipt returns a single receipt by ID
func (db *DB) GetReceipt(id int64) (models.Receipt, error) {
	var r models.Receipt
	err := db.QueryRow(`
		SELECT id, filename, stored_path, text, created_at FROM receipts WHERE id = ?
	`, id).Scan(&r.ID, &r.Filename, &r.StoredPath, &r.Text, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return r, fmt.Errorf("receipt %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return r, fmt.Errorf("query receipt: %w", err)
	}
	return r, nil
}

// ListReceipts returns all receipts in upload order
func (db *DB) ListReceipts() ([]models.Receipt, error) {
	rows, err := db.Query(`
		SELECT id, filename, stored_path, text, created_at FROM receipts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		var r models.Receipt
		if err := rows.Scan(&r.ID, &r.Filename, &r.StoredPath, &r.Text, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}
