package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/auth"
	"github.com/docflow/docflow/internal/config"
	handlers "github.com/docflow/docflow/internal/handlers/v1alpha1"
	"github.com/docflow/docflow/internal/service"
	"github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/internal/worker"
	"github.com/docflow/docflow/pkg/metrics"
	"github.com/docflow/docflow/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the docflow API server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	scanInterval, err := time.ParseDuration(s.cfg.Worker.ScanInterval)
	if err != nil {
		return fmt.Errorf("invalid worker scan interval: %w", err)
	}

	processor := worker.NewBatchProcessor(
		s.store,
		worker.WithScanInterval(scanInterval),
		worker.WithConcurrency(s.cfg.Worker.Concurrency),
		worker.WithReviewFunc(worker.RatioReview(s.cfg.Worker.ApproveRatio)),
	)

	h := handlers.NewServiceHandler(
		service.NewDocumentService(s.store),
		service.NewBatchService(s.store, processor),
	)

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()
	metrics.RegisterMetrics()

	router.Get("/health", h.Health)

	router.Group(func(r chi.Router) {
		r.Use(
			metricMiddleware.Handler,
			cors.Handler(cors.Options{
				AllowedOrigins:   s.cfg.Service.CORSOrigins,
				AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: true,
				MaxAge:           300,
			}),
			authenticator.Authenticator,
			middleware.RequestID,
			middleware.Logger(),
			chiMiddleware.Recoverer,
		)
		h.RegisterRoutes(r)
	})

	workerDone := make(chan error, 1)
	go func() {
		workerDone <- processor.Run(ctx)
	}()

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// wait for in-flight jobs before returning
	if err := <-workerDone; err != nil {
		zap.S().Named("api_server").Warnf("batch worker exited with error: %v", err)
	}

	return nil
}
