package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/internal/config"
	"github.com/RiXaTorAguGoBravo/matriz-cobranza/internal/report"
	"github.com/RiXaTorAguGoBravo/matriz-cobranza/internal/scheduler"
	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/store"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server holds the report builder and its storage.
type Server struct {
	builder *report.Builder
	storage store.Storage
	log     *logrus.Logger
}

func NewServer(s store.Storage, log *logrus.Logger) *Server {
	return &Server{
		builder: report.NewBuilder(s, log),
		storage: s,
		log:     log,
	}
}

// asOfDate reads the as_of query parameter, defaulting to today (UTC).
func asOfDate(r *http.Request) (time.Time, error) {
	v := r.URL.Query().Get("as_of")
	if v == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of date %q, want YYYY-MM-DD", v)
	}
	return d, nil
}

func (s *Server) portfolioHandler(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfDate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := s.builder.Build(asOf)
	if err != nil {
		s.log.WithError(err).Error("portfolio build failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep.Rows)
}

func (s *Server) creditHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	asOf, err := asOfDate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	row, err := s.builder.Credit(id, asOf)
	if err != nil {
		if errors.Is(err, report.ErrCreditNotFound) {
			http.Error(w, "Credit not found", http.StatusNotFound)
		} else {
			s.log.WithError(err).Error("credit lookup failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(row)
}

func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfDate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := s.builder.Build(asOf)
	if err != nil {
		s.log.WithError(err).Error("report build failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

func (s *Server) router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/portfolio", s.portfolioHandler).Methods("GET")
	router.HandleFunc("/portfolio/{id}", s.creditHandler).Methods("GET")
	router.HandleFunc("/report", s.reportHandler).Methods("GET")
	return router
}

func openStore(cfg *config.Config) (store.Storage, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgresStore(cfg.Store.DSN)
	default:
		return store.NewSQLiteStore(cfg.Store.DSN)
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load("config.yaml")
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	storage, err := openStore(cfg)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}
	defer storage.Close()

	server := NewServer(storage, logger)

	sched := scheduler.New(server.builder, logger)
	if err := sched.Register(cfg.Report.Cron); err != nil {
		logger.Fatalf("Failed to register report schedule: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Server starting on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
