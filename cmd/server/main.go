package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/threedq/threedq/internal/catalog"
	"github.com/threedq/threedq/internal/config"
	"github.com/threedq/threedq/internal/db"
	"github.com/threedq/threedq/internal/migrations"
	"github.com/threedq/threedq/internal/quotes"
	"github.com/threedq/threedq/internal/seed"
	"github.com/threedq/threedq/internal/settings"
)

type server struct {
	db       *sql.DB
	logger   *log.Logger
	validate *validator.Validate

	quotes   *quotes.Store
	catalog  *catalog.Store
	settings *settings.Store

	adminToken string
}

func newServer(database *sql.DB, logger *log.Logger, adminToken string) *server {
	return &server{
		db:         database,
		logger:     logger,
		validate:   validator.New(),
		quotes:     quotes.NewStore(database),
		catalog:    catalog.NewStore(database),
		settings:   settings.NewStore(database),
		adminToken: adminToken,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", "err", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", "path", cfg.DBPath, "err", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		logger.Fatal("failed to run database migrations", "err", err)
	}

	stats, err := seed.Run(database, seed.Config{QuotePrefix: cfg.QuotePrefix})
	if err != nil {
		logger.Fatal("failed to seed database", "err", err)
	}
	if stats.Inserts > 0 {
		logger.Info("seeded reference data", "inserts", stats.Inserts)
	}

	srv := newServer(database, logger, cfg.AdminToken)
	if srv.adminToken == "" {
		logger.Warn("admin token not set, mutating endpoints are unprotected")
	}

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "environment", cfg.Environment)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAdminToken)

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", s.handleQuotesList)
			r.Post("/", s.handleQuoteCreate)
			r.Post("/preview", s.handleQuotePreview)
			r.Post("/quick", s.handleQuickQuoteCreate)
			r.Get("/export", s.handleQuotesExport)
			r.Get("/{id}", s.handleQuoteGet)
			r.Put("/{id}", s.handleQuoteUpdate)
			r.Delete("/{id}", s.handleQuoteDelete)
			r.Post("/{id}/duplicate", s.handleQuoteDuplicate)
			r.Get("/{id}/invoice", s.handleQuoteInvoice)
		})

		r.Route("/filaments", func(r chi.Router) {
			r.Get("/", s.handleFilamentsList)
			r.Post("/", s.handleFilamentCreate)
			r.Get("/{id}", s.handleFilamentGet)
			r.Put("/{id}", s.handleFilamentUpdate)
			r.Delete("/{id}", s.handleFilamentDelete)
		})

		r.Route("/printers", func(r chi.Router) {
			r.Get("/", s.handlePrintersList)
			r.Post("/", s.handlePrinterCreate)
			r.Get("/{id}", s.handlePrinterGet)
			r.Put("/{id}", s.handlePrinterUpdate)
			r.Delete("/{id}", s.handlePrinterDelete)
		})

		r.Route("/hardware", func(r chi.Router) {
			r.Get("/", s.handleHardwareList)
			r.Post("/", s.handleHardwareCreate)
			r.Get("/{id}", s.handleHardwareGet)
			r.Put("/{id}", s.handleHardwareUpdate)
			r.Delete("/{id}", s.handleHardwareDelete)
		})

		r.Get("/settings", s.handleSettingsGet)
		r.Put("/settings", s.handleSettingsUpdate)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger tags every request with an id and logs method, path,
// status and duration once the handler returns.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
