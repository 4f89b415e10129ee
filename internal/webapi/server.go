package webapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/config"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// Store is the read-side storage the server queries. Both *store.Store
// (Postgres) and *store.FileStore (CSV artifacts) satisfy this.
type Store interface {
	Families(ctx context.Context, marketType string) ([]model.FamilyHorizon, error)
	Distribution(ctx context.Context, family string, days []model.Day) ([]model.DistributionRow, error)
	PredictionDays(ctx context.Context, family string) ([]model.Day, error)
	ExpiryDay(ctx context.Context, family string) (model.Day, error)
	Moments(ctx context.Context, family string) ([]model.MomentSummary, error)
}

// Server serves the query API.
type Server struct {
	store       Store
	marketTypes []config.MarketTypeConfig
	logger      *slog.Logger

	srv *http.Server
}

// New creates a Server. The market type configs drive the /types listing
// and horizon overrides.
func New(store Store, marketTypes []config.MarketTypeConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:       store,
		marketTypes: marketTypes,
		logger:      logger,
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", s.handleHealth)
	r.Get("/types", s.handleTypes)
	r.Get("/contracts", s.handleContracts)
	r.Get("/distribution", s.handleDistribution)
	r.Get("/contract-info", s.handleContractInfo)
	r.Get("/prediction-dates", s.handlePredictionDates)
	r.Get("/moments", s.handleMoments)

	return r
}

// Start begins serving on the given port. Blocks until the context is
// cancelled or the listener fails.
func (s *Server) Start(ctx context.Context, port int) error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("query server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		return nil
	}
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.logger.Info("stopping query server")
	return s.srv.Shutdown(ctx)
}
