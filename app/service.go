package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/greenfleet/greenfleet/api"
	"github.com/greenfleet/greenfleet/api/dashboard"
	ledgerapi "github.com/greenfleet/greenfleet/api/ledger"
	"github.com/greenfleet/greenfleet/config"
	coremetrics "github.com/greenfleet/greenfleet/core/metrics"
	"github.com/greenfleet/greenfleet/core/planner"
	"github.com/greenfleet/greenfleet/infra/logger"
	"github.com/greenfleet/greenfleet/infra/metrics"
	"github.com/greenfleet/greenfleet/infra/mqtt"
	"github.com/greenfleet/greenfleet/internal/eventbus"
	"github.com/greenfleet/greenfleet/internal/view"
	"github.com/greenfleet/greenfleet/web"
)

// ShutdownTimeout bounds the graceful HTTP shutdown.
const ShutdownTimeout = 5 * time.Second

// Service wires the planner, the HTTP surfaces, the metrics endpoint and the
// MQTT forwarder.
type Service struct {
	Planner *planner.Service

	cfg       *config.Config
	handler   http.Handler
	sink      coremetrics.LedgerSink
	bus       *eventbus.TypedBus[planner.Run]
	publisher *mqtt.ReportPublisher
	log       logger.Logger

	mu   sync.Mutex
	addr net.Addr
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := coremetrics.NewLedgerSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	bus := eventbus.NewTyped[planner.Run](eventbus.DefaultBuffer)
	svc, err := planner.NewService(planner.Options{
		Optimizer:    planner.NewStaticOptimizer(cfg.Planner.Delay()),
		StaticQuotas: cfg.Planner.Quotas,
		QuotaSource:  cfg.Planner.Source(),
		Sink:         sink,
		Bus:          bus,
		CacheSize:    cfg.Planner.CacheSize,
		Logger:       logger.New("planner"),
	})
	if err != nil {
		closeSink(sink)
		return nil, fmt.Errorf("planner: %w", err)
	}

	var pub *mqtt.ReportPublisher
	if cfg.MQTT.Enabled {
		if pub, err = mqtt.NewReportPublisher(cfg.MQTT); err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	handler, err := NewRouter(svc, cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		Planner:   svc,
		cfg:       cfg,
		handler:   handler,
		sink:      sink,
		bus:       bus,
		publisher: pub,
		log:       logg,
	}, nil
}

// NewRouter builds the dashboard and API router.
func NewRouter(svc *planner.Service, cfg *config.Config) (http.Handler, error) {
	engine, err := view.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	r := chi.NewRouter()
	r.Use(api.Middleware(logger.New("http"), cfg.HTTP.WriteTimeout())...)
	ledgerapi.NewHandler(svc, cfg.HTTP.ExportRateLimit, logger.New("ledger_api")).MountRoutes(r)
	dashboard.NewHandler(svc, engine, dashboard.Options{
		DefaultLimit:    cfg.Planner.DefaultLimit,
		MaxUploadBytes:  cfg.HTTP.MaxUploadBytes(),
		ExportRateLimit: cfg.HTTP.ExportRateLimit,
		Static:          static,
		Logger:          logger.New("dashboard"),
	}).MountRoutes(r)
	return r, nil
}

// Handler returns the HTTP handler of the dashboard and the API.
func (s *Service) Handler() http.Handler { return s.handler }

// Addr returns the address the HTTP server listens on, nil before Run.
func (s *Service) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.HTTP.Addr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.HTTP.ReadTimeout(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.HTTP.WriteTimeout(),
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Infof("dashboard listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		g.Go(func() error {
			s.log.Infof("prometheus metrics on %s/metrics", addr)
			if err := metrics.StartPromServer(gctx, addr); err != nil {
				return fmt.Errorf("prom server: %w", err)
			}
			return nil
		})
	}
	if s.publisher != nil {
		done := mqtt.StartRunForwarder(gctx, s.bus, s.publisher, logger.New("mqtt_forwarder"))
		g.Go(func() error {
			<-done
			return nil
		})
	}
	return g.Wait()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	closeSink(s.sink)
	return nil
}

func closeSink(sink coremetrics.LedgerSink) {
	switch v := sink.(type) {
	case *coremetrics.MultiSink:
		for _, s := range v.Sinks {
			closeSink(s)
		}
	case interface{ Close() }:
		v.Close()
	}
}
