package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilikirja/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	entries := []models.JournalEntry{
		{ID: 1, Date: "2024-01-01", AccountID: 7, Description: "Avaus tulo", Debit: dec("0"), Credit: dec("1000"), VAT: dec("0")},
		{ID: 2, Date: "2024-01-02", AccountID: 8, Description: "Ostopalvelu", Debit: dec("500"), Credit: dec("0"), VAT: dec("24")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per entry")

	assert.Equal(t, Columns, records[0])

	for i, e := range entries {
		row := records[i+1]
		assert.Equal(t, e.Date, row[0])
		// The account column is the raw account id, not number or name.
		assert.Equal(t, strconv.FormatInt(e.AccountID, 10), row[1])
		assert.Equal(t, e.Description, row[2])

		debit, err := decimal.NewFromString(row[3])
		require.NoError(t, err)
		assert.True(t, debit.Equal(e.Debit))

		credit, err := decimal.NewFromString(row[4])
		require.NoError(t, err)
		assert.True(t, credit.Equal(e.Credit))

		vat, err := decimal.NewFromString(row[5])
		require.NoError(t, err)
		assert.True(t, vat.Equal(e.VAT))
	}
}

func TestWriteCSV_QuotesDescription(t *testing.T) {
	entries := []models.JournalEntry{
		{Date: "2024-02-01", AccountID: 1, Description: `Lounas, "neukkari"`, Debit: dec("25.40"), Credit: dec("0"), VAT: dec("3.56")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, `Lounas, "neukkari"`, records[1][2])
}

func TestWriteCSV_EmptyJournal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Columns, records[0])
}
