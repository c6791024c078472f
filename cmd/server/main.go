package main

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"tilikirja/internal/chart"
	"tilikirja/internal/config"
	"tilikirja/internal/database"
	"tilikirja/internal/filestore"
	"tilikirja/internal/handlers"
	"tilikirja/internal/logger"
	"tilikirja/internal/ocr"
	"tilikirja/internal/version"
	"tilikirja/web"
)

func main() {
	// Handle --version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("Tilikirja %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
	log := logger.Default()

	// Open database
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Error("database_open_failed", "path", cfg.DBPath, "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	// Initialize schema
	if err := db.Init(); err != nil {
		log.Error("database_init_failed", "error", err.Error())
		os.Exit(1)
	}

	// Seed chart of accounts (no-op when accounts exist or the file is absent)
	seeded, err := chart.Seed(db, cfg.ChartPath)
	if err != nil {
		log.Error("chart_seed_failed", "path", cfg.ChartPath, "error", err.Error())
		os.Exit(1)
	}
	if seeded > 0 {
		log.Info("chart_seeded", "path", cfg.ChartPath, "accounts", seeded)
	}

	// Parse templates
	tmpl, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		log.Error("template_parse_failed", "error", err.Error())
		os.Exit(1)
	}

	// Initialize filestore (uploads directory alongside the database by default)
	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = filepath.Join(filepath.Dir(cfg.DBPath), "uploads")
	}
	files, err := filestore.New(uploadDir)
	if err != nil {
		log.Error("filestore_init_failed", "path", uploadDir, "error", err.Error())
		os.Exit(1)
	}

	extractor := ocr.NewTesseractExtractor(cfg.OCRLang)

	h := handlers.New(db, tmpl, files, extractor)
	handler := logger.HTTPMiddleware(h.Routes())

	log.Info("server_starting", "port", cfg.Port, "address", "http://localhost:"+cfg.Port, "version", version.Version)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}
