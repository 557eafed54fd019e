package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/Simplici0/mktcalc/internal/config"
	"github.com/Simplici0/mktcalc/internal/db"
	"github.com/Simplici0/mktcalc/internal/history"
	"github.com/Simplici0/mktcalc/internal/logger"
	"github.com/Simplici0/mktcalc/internal/migrations"
	"github.com/Simplici0/mktcalc/internal/pricing"
	"github.com/Simplici0/mktcalc/internal/seed"
	"github.com/Simplici0/mktcalc/internal/tariff"
	"github.com/Simplici0/mktcalc/internal/workspace"
)

type server struct {
	log       zerolog.Logger
	schedule  pricing.Schedule
	workspace *workspace.Store
	history   *history.Store
	now       func() time.Time
}

func newServer(database *sql.DB, schedule pricing.Schedule, historyLimit int, log zerolog.Logger) *server {
	return &server{
		log:       log,
		schedule:  schedule,
		workspace: workspace.NewStore(database, schedule, log),
		history:   history.NewStore(database, historyLimit, log),
		now:       time.Now,
	}
}

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}

	schedule, err := tariff.Load(cfg.FeeTablePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load fee table")
	}
	log.Info().Str("version", schedule.Version).Msg("fee table loaded")

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	stats, err := seed.Run(context.Background(), database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}
	log.Debug().Int("inserts", stats.Inserts).Int("updates", stats.Updates).Msg("seed complete")

	srv := newServer(database, schedule, cfg.HistoryLimit, log)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("env", cfg.Env).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/marketplaces", s.handleMarketplacesList)
		r.Post("/marketplaces/reset", s.handleMarketplacesReset)
		r.Patch("/marketplaces/{id}", s.handleMarketplaceUpdate)
		r.Post("/marketplaces/{id}/derive-fees", s.handleMarketplaceDeriveFees)
		r.Post("/calculate", s.handleCalculate)
		r.Get("/shipping", s.handleShipping)
		r.Get("/fees/{type}", s.handleFees)
		r.Get("/history", s.handleHistoryList)
		r.Post("/history", s.handleHistorySave)
		r.Delete("/history", s.handleHistoryClear)
		r.Post("/export", s.handleExport)
	})

	return r
}

func (s *server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
