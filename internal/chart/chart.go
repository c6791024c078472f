// Package chart seeds the chart of accounts from a static JSON file.
package chart

import (
	"encoding/json"
	"fmt"
	"os"

	"tilikirja/internal/database"
	"tilikirja/internal/models"
)

// Definition is one account record in the chart JSON file.
type Definition struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// Seed loads the chart of accounts into an empty database. It is a
// no-op when accounts already exist or when the file is absent; it
// never merges or updates. The insert is a single transaction: a bad
// chart file leaves the table empty, so a corrected file can still
// seed on the next start. Returns the number of accounts created.
func Seed(db *database.DB, path string) (int, error) {
	n, err := db.CountAccounts()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read chart file: %w", err)
	}

	var defs []Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		return 0, fmt.Errorf("parse chart file: %w", err)
	}

	accounts := make([]models.Account, 0, len(defs))
	for _, d := range defs {
		accounts = append(accounts, models.Account{Number: d.Number, Name: d.Name})
	}
	if err := db.CreateAccounts(accounts); err != nil {
		return 0, fmt.Errorf("seed accounts: %w", err)
	}
	return len(defs), nil
}
