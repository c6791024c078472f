package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tilikirja/internal/bankimport"
	"tilikirja/internal/database"
	"tilikirja/internal/export"
	"tilikirja/internal/filestore"
	"tilikirja/internal/logger"
	"tilikirja/internal/models"
	"tilikirja/internal/ocr"
	"tilikirja/internal/reconcile"
	"tilikirja/internal/report"
	"tilikirja/internal/version"
)

type Handler struct {
	db         *database.DB
	tmpl       *template.Template
	files      *filestore.Store
	extractor  ocr.Extractor
	importer   *bankimport.Importer
	reconciler *reconcile.Service
}

func New(db *database.DB, tmpl *template.Template, files *filestore.Store, extractor ocr.Extractor) *Handler {
	return &Handler{
		db:         db,
		tmpl:       tmpl,
		files:      files,
		extractor:  extractor,
		importer:   bankimport.New(db),
		reconciler: reconcile.New(db),
	}
}

// Routes returns the application router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})
	r.Get("/api/version", h.APIVersion)

	r.Get("/", h.Index)
	r.Post("/upload", h.ReceiptUpload)
	r.Post("/bank-upload", h.BankUpload)
	r.Post("/match/{bankID}", h.Match)
	r.Get("/api/bank-rows/{bankID}/suggestions", h.MatchSuggestions)

	r.Get("/reports", h.Reports)
	r.Get("/export.csv", h.ExportCSV)
	r.Post("/journal", h.JournalCreate)

	return r
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	err := h.tmpl.ExecuteTemplate(w, name, data)
	if err != nil {
		logger.FromContext(r.Context()).Error("template_render_error", "template", name, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Index shows receipts and bank rows side by side for manual matching
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.db.ListReceipts()
	if err != nil {
		logger.FromContext(r.Context()).Error("receipt_list_error", "error", err.Error())
	}
	bankRows, err := h.db.ListBankRows()
	if err != nil {
		logger.FromContext(r.Context()).Error("bank_row_list_error", "error", err.Error())
	}
	h.render(w, r, "index.html", map[string]interface{}{
		"Receipts": receipts,
		"BankRows": bankRows,
	})
}

// ReceiptUpload stores the uploaded document, extracts its text and
// creates the receipt. Extraction runs before the receipt exists;
// failed extraction still creates the receipt with empty text.
func (h *Handler) ReceiptUpload(w http.ResponseWriter, r *http.Request) {
	l := logger.FromContext(r.Context())

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	stored, err := h.files.Save(header.Filename, file)
	if err != nil {
		l.Error("receipt_save_error", "filename", header.Filename, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	text, err := h.extractor.Extract(r.Context(), h.files.FullPath(stored))
	if err != nil {
		l.Warn("receipt_extract_error", "filename", header.Filename, "error", err.Error())
		text = ""
	}

	id, err := h.db.CreateReceipt(models.Receipt{
		Filename:   header.Filename,
		StoredPath: stored,
		Text:       text,
	})
	if err != nil {
		l.Error("receipt_create_error", "filename", header.Filename, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	l.Info("receipt_uploaded", "receipt_id", id, "filename", header.Filename, "text_len", len(text))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// BankUpload imports a bank CSV. The import is all-or-nothing: any
// malformed row fails the call and nothing is persisted.
func (h *Handler) BankUpload(w http.ResponseWriter, r *http.Request) {
	l := logger.FromContext(r.Context())

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ids, err := h.importer.Import(file)
	if errors.Is(err, bankimport.ErrMalformedInput) {
		l.Warn("bank_import_rejected", "filename", header.Filename, "error", err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		l.Error("bank_import_error", "filename", header.Filename, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	l.Info("bank_import_completed", "filename", header.Filename, "rows", len(ids))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Match links a bank row to the receipt given in the form
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	bankRowID, err := strconv.ParseInt(chi.URLParam(r, "bankID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid bank row id", http.StatusBadRequest)
		return
	}
	receiptID, err := strconv.ParseInt(r.FormValue("receipt_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid receipt id", http.StatusBadRequest)
		return
	}

	if err := h.reconciler.Match(bankRowID, receiptID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("match_error", "bank_row_id", bankRowID, "receipt_id", receiptID, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// MatchSuggestions returns receipt candidates for a bank row as JSON
func (h *Handler) MatchSuggestions(w http.ResponseWriter, r *http.Request) {
	bankRowID, err := strconv.ParseInt(chi.URLParam(r, "bankID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid bank row id", http.StatusBadRequest)
		return
	}

	candidates, err := h.reconciler.Suggest(bankRowID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("suggest_error", "bank_row_id", bankRowID, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	type suggestion struct {
		ReceiptID int64  `json:"receipt_id"`
		Filename  string `json:"filename"`
	}
	out := make([]suggestion, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, suggestion{ReceiptID: c.ID, Filename: c.Filename})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Reports renders the income and balance aggregation plus the optional
// journal balance check
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	l := logger.FromContext(r.Context())

	// One read pass per request: entries and accounts are loaded once
	// and aggregated in memory.
	entries, err := h.db.ListJournalEntries()
	if err != nil {
		l.Error("journal_list_error", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	accounts, err := h.db.ListAccounts()
	if err != nil {
		l.Error("account_list_error", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rep := report.Aggregate(entries, accounts, nil)
	h.render(w, r, "reports.html", map[string]interface{}{
		"Income":   rep.Income,
		"Balance":  rep.Balance,
		"Check":    report.CheckBalance(entries),
		"Accounts": accounts,
	})
}

// ExportCSV streams the full journal as a CSV attachment
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	entries, err := h.db.ListJournalEntries()
	if err != nil {
		logger.FromContext(r.Context()).Error("journal_list_error", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="bookkeeping.csv"`)
	if err := export.WriteCSV(w, entries); err != nil {
		logger.FromContext(r.Context()).Error("export_error", "error", err.Error())
	}
}

// JournalCreate appends a posting from the reports page form.
// Debit/credit balance is intentionally not validated.
func (h *Handler) JournalCreate(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(r.FormValue("account_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}

	debit, err := parseAmount(r.FormValue("debit"))
	if err != nil {
		http.Error(w, "invalid debit", http.StatusBadRequest)
		return
	}
	credit, err := parseAmount(r.FormValue("credit"))
	if err != nil {
		http.Error(w, "invalid credit", http.StatusBadRequest)
		return
	}
	vat, err := parseAmount(r.FormValue("vat"))
	if err != nil {
		http.Error(w, "invalid vat", http.StatusBadRequest)
		return
	}

	_, err = h.db.CreateJournalEntry(models.JournalEntry{
		Date:        r.FormValue("date"),
		AccountID:   accountID,
		Description: r.FormValue("description"),
		Debit:       debit,
		Credit:      credit,
		VAT:         vat,
	})
	if err != nil {
		logger.FromContext(r.Context()).Error("journal_create_error", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/reports", http.StatusSeeOther)
}

// APIVersion returns build information as JSON
func (h *Handler) APIVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"version":    version.Version,
		"build_time": version.BuildTime,
		"git_commit": version.GitCommit,
	})
}

// parseAmount reads a decimal form value, treating empty as zero
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
