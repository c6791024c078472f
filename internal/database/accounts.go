package database

import (
	"fmt"

	"tilikirja/internal/models"
)

// CreateAccount inserts a new account
func (db *DB) CreateAccount(number, name string) (int64, error) {
	result, err := db.Exec(`INSERT INTO accounts (number, name) VALUES (?, ?)`, number, name)
	if err != nil {
		return 0, fmt.Errorf("insert account: %w", err)
	}
	return result.LastInsertId()
}

// CreateAccounts inserts accounts in the order given, inside a single
// transaction, so a failed batch leaves the table untouched.
func (db *DB) CreateAccounts(accounts []models.Account) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin account insert: %w", err)
	}
	defer tx.Rollback()

	for _, a := range accounts {
		if _, err := tx.Exec(`INSERT INTO accounts (number, name) VALUES (?, ?)`, a.Number, a.Name); err != nil {
			return fmt.Errorf("insert account %s: %w", a.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit accounts: %w", err)
	}
	return nil
}

// CountAccounts returns the number of accounts
func (db *DB) CountAccounts() (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

// ListAccounts returns all accounts in seed order
func (db *DB) ListAccounts() ([]models.Account, error) {
	rows, err := db.Query(`SELECT id, number, name FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Number, &a.Name); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
