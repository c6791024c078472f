package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilikirja/internal/database"
	"tilikirja/internal/filestore"
	"tilikirja/internal/models"
	"tilikirja/web"
)

// fakeExtractor returns canned OCR output.
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

func newTestHandler(t *testing.T, extractor *fakeExtractor) (*Handler, *database.DB) {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Init())
	t.Cleanup(func() { db.Close() })

	tmpl, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	require.NoError(t, err)

	files, err := filestore.New(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	return New(db, tmpl, files, extractor), db
}

func multipartFile(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestReceiptUpload_CreatesReceiptWithExtractedText(t *testing.T) {
	h, db := newTestHandler(t, &fakeExtractor{text: "Yhteensä 12,50 EUR"})

	body, contentType := multipartFile(t, "file", "kuitti.pdf", "%PDF-1.4 fake")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	receipts, err := db.ListReceipts()
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, "kuitti.pdf", receipts[0].Filename)
	assert.Equal(t, "Yhteensä 12,50 EUR", receipts[0].Text)
	assert.NotEmpty(t, receipts[0].StoredPath)
}

func TestReceiptUpload_ExtractionFailureStillCreatesReceipt(t *testing.T) {
	h, db := newTestHandler(t, &fakeExtractor{err: errors.New("tesseract exploded")})

	body, contentType := multipartFile(t, "file", "kuitti.jpg", "not really a jpeg")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	receipts, err := db.ListReceipts()
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Empty(t, receipts[0].Text)
}

func TestBankUpload_ImportsRows(t *testing.T) {
	h, db := newTestHandler(t, &fakeExtractor{})

	csvData := "date,description,amount\n2024-01-01,Coffee,-4.50\n2024-01-02,Invoice,1000\n"
	body, contentType := multipartFile(t, "file", "bank.csv", csvData)
	req := httptest.NewRequest(http.MethodPost, "/bank-upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rows, err := db.ListBankRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Coffee", rows[0].Description)
}

func TestBankUpload_MalformedAmountRejectsWholeFile(t *testing.T) {
	h, db := newTestHandler(t, &fakeExtractor{})

	csvData := "date,description,amount\n2024-01-01,Good,10\n2024-01-02,Bad,oops\n"
	body, contentType := multipartFile(t, "file", "bank.csv", csvData)
	req := httptest.NewRequest(http.MethodPost, "/bank-upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rows, err := db.ListBankRows()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMatch_LinksRowToReceipt(t *testing.T) {
	h, db := newTestHandler(t, &fakeExtractor{})

	receiptID, err := db.CreateReceipt(models.Receipt{Filename: "kuitti.pdf"})
	require.NoError(t, err)
	ids, err := db.CreateBankRows([]models.BankRow{{Date: "2024-01-01", Description: "Coffee", Amount: decimal.RequireFromString("-4.50")}})
	require.NoError(t, err)

	form := strings.NewReader("receipt_id=1")
	req := httptest.NewRequest(http.MethodPost, "/match/1", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	row, err := db.GetBankRow(ids[0])
	require.NoError(t, err)
	require.NotNil(t, row.MatchedReceiptID)
	assert.Equal(t, receiptID, *row.MatchedReceiptID)
}

func TestMatch_MissingRecordIs404(t *testing.T) {
	h, _ := newTestHandler(t, &fakeExtractor{})

	form := strings.NewReader("receipt_id=55")
	req := httptest.NewRequest(http.MethodPost, "/match/99", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "bank row 99")
}

func TestMatchSuggestions_JSON(t *testing.T) {
	h, db := newTestHandler(t, &fakeExtractor{})

	_, err := db.CreateReceipt(models.Receipt{Filename: "kuitti.pdf", Text: "total 4,50"})
	require.NoError(t, err)
	ids, err := db.CreateBankRows([]models.BankRow{{Date: "2024-01-01", Description: "Coffee", Amount: decimal.RequireFromString("-4.50")}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/bank-rows/1/suggestions", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(1), ids[0])

	var out []struct {
		ReceiptID int64  `json:"receipt_id"`
		Filename  string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "kuitti.pdf", out[0].Filename)
}

func TestJournalCreateAndReports(t *testing.T) {
	h, db := newTestHandler(t, &fakeExtractor{})

	accountID, err := db.CreateAccount("3000", "Sales")
	require.NoError(t, err)

	form := strings.NewReader("date=2024-01-01&account_id=1&description=Avaus+tulo&debit=&credit=1000&vat=")
	req := httptest.NewRequest(http.MethodPost, "/journal", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, int64(1), accountID)

	req = httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec = httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "3000 Sales")
	assert.Contains(t, rec.Body.String(), "1000.00")
}

func TestExportCSV(t *testing.T) {
	h, db := newTestHandler(t, &fakeExtractor{})

	_, err := db.CreateJournalEntry(models.JournalEntry{
		Date:        "2024-01-02",
		AccountID:   4,
		Description: "Ostopalvelu",
		Debit:       decimal.RequireFromString("500"),
		Credit:      decimal.Zero,
		VAT:         decimal.RequireFromString("24"),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/export.csv", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bookkeeping.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"date", "account", "description", "debit", "credit", "vat"}, records[0])
	assert.Equal(t, []string{"2024-01-02", "4", "Ostopalvelu", "500.00", "0.00", "24.00"}, records[1])
}

func TestIndexPage(t *testing.T) {
	h, db := newTestHandler(t, &fakeExtractor{})

	_, err := db.CreateReceipt(models.Receipt{Filename: "kuitti.pdf", Text: "some text"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kuitti.pdf")
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, &fakeExtractor{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", rec.Body.String())
}
