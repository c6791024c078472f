// Package bankimport parses bank-statement CSV files into bank rows.
package bankimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"tilikirja/internal/database"
	"tilikirja/internal/models"
)

// ErrMalformedInput is returned when the CSV header or a row cannot be
// parsed. The whole import call fails; nothing is persisted.
var ErrMalformedInput = errors.New("malformed input")

// Importer persists bank CSV files as bank rows.
type Importer struct {
	db *database.DB
}

// New creates an Importer backed by db.
func New(db *database.DB) *Importer {
	return &Importer{db: db}
}

// Import reads a CSV stream with a header naming at least date,
// description and amount, and persists one bank row per data row.
// Column order is free and extra columns are ignored. An empty amount
// cell defaults to zero; a non-numeric amount fails the whole call.
// All rows are parsed before anything is written, and the write is a
// single transaction, so an import is all-or-nothing.
// Returns the created ids in input order.
func (im *Importer) Import(r io.Reader) ([]int64, error) {
	bankRows, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if len(bankRows) == 0 {
		return nil, nil
	}
	return im.db.CreateBankRows(bankRows)
}

// Parse reads a bank CSV stream into bank rows without persisting them.
func Parse(r io.Reader) ([]models.BankRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty stream: %w", ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", ErrMalformedInput)
	}

	cols, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var bankRows []models.BankRow
	for i := 0; ; i++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %v: %w", i+2, err, ErrMalformedInput)
		}

		row, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		bankRows = append(bankRows, row)
	}
	return bankRows, nil
}

// columnIndex maps the required columns to their position in the header.
type columnIndex struct {
	date        int
	description int
	amount      int
}

func headerIndex(header []string) (columnIndex, error) {
	cols := columnIndex{date: -1, description: -1, amount: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = i
		case "description":
			cols.description = i
		case "amount":
			cols.amount = i
		}
	}
	if cols.date < 0 || cols.description < 0 || cols.amount < 0 {
		return cols, fmt.Errorf("header must name date, description and amount: %w", ErrMalformedInput)
	}
	return cols, nil
}

func parseRow(rec []string, cols columnIndex) (models.BankRow, error) {
	row := models.BankRow{
		Date:        field(rec, cols.date),
		Description: field(rec, cols.description),
		Amount:      decimal.Zero,
	}

	if raw := strings.TrimSpace(field(rec, cols.amount)); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return row, fmt.Errorf("amount %q: %w", raw, ErrMalformedInput)
		}
		row.Amount = amount
	}
	return row, nil
}

// field returns rec[i] or "" when the row is short.
func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
