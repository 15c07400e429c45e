// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jeremyhahn/go-passkey/internal/config"
	"github.com/jeremyhahn/go-passkey/pkg/metrics"
	passkeyhttp "github.com/jeremyhahn/go-passkey/pkg/passkey/http"
	"github.com/jeremyhahn/go-passkey/pkg/passkey/mockrp"
	"github.com/jeremyhahn/go-passkey/pkg/ratelimit"
)

// sweepInterval is how often expired challenges are reaped in the
// background.
const sweepInterval = time.Minute

// collectInterval is how often the process resource gauges refresh.
const collectInterval = 30 * time.Second

// Server hosts the relying-party ceremony API along with health and
// metrics endpoints.
type Server struct {
	server      *http.Server
	router      *chi.Mux
	rp          *mockrp.RelyingParty
	challenges  *mockrp.MemoryChallengeStore
	credentials *mockrp.MemoryCredentialStore
	limiter     *ratelimit.Limiter
	collector   *metrics.ResourceCollector
	cfg         *config.Config
	logger      *slog.Logger
	startedAt   time.Time
	ctx         context.Context
	cancel      context.CancelFunc
	sweepStop   chan struct{}
	sweepDone   chan struct{}
}

// New creates a server from the loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	challenges := mockrp.NewMemoryChallengeStore(cfg.RelyingParty.ChallengeTTL)
	credentials := mockrp.NewMemoryCredentialStore()

	rpConfig := cfg.RelyingParty
	rp, err := mockrp.New(mockrp.Params{
		Config:      &rpConfig,
		Challenges:  challenges,
		Credentials: credentials,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create relying party: %w", err)
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(&ratelimit.Config{
			Enabled:           true,
			RequestsPerMinute: cfg.RateLimit.RequestsPerMin,
		})
	}

	if cfg.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		rp:          rp,
		challenges:  challenges,
		credentials: credentials,
		limiter:     limiter,
		cfg:         cfg,
		logger:      logger,
		startedAt:   time.Now(),
		ctx:         ctx,
		cancel:      cancel,
		sweepStop:   make(chan struct{}),
		sweepDone:   make(chan struct{}),
	}
	s.router = s.setupRouter()

	readTimeout := time.Duration(cfg.Server.ReadTimeoutSec) * time.Second
	if readTimeout == 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := time.Duration(cfg.Server.WriteTimeoutSec) * time.Second
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	s.server = &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRouter configures the chi router with all routes and middleware.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(s.RecoveryMiddleware())
	r.Use(s.CorrelationMiddleware())
	r.Use(s.LoggingMiddleware())
	r.Use(metrics.HTTPMiddleware)
	r.Use(CORSMiddleware)
	if s.limiter != nil {
		r.Use(ratelimit.Middleware(s.limiter))
	}

	if s.cfg.Health.Enabled {
		r.Get(s.cfg.Health.Path, s.healthHandler)
		r.Head(s.cfg.Health.Path, s.healthHandler)
	}
	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, promhttp.Handler())
	}

	handler := passkeyhttp.NewHandler(s.rp).WithLogger(s.logger)
	r.Route("/api/passkey", func(r chi.Router) {
		passkeyhttp.MountChi(r, handler)
	})

	return r
}

// Router exposes the assembled handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// RelyingParty exposes the underlying relying party.
func (s *Server) RelyingParty() *mockrp.RelyingParty {
	return s.rp
}

// healthHandler reports liveness plus store occupancy.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"uptime":      time.Since(s.startedAt).String(),
		"rp_id":       s.cfg.RelyingParty.RPID,
		"challenges":  s.challenges.Count(),
		"credentials": s.credentials.Count(),
	})
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.startWorkers()

	s.logger.Info("Starting HTTP server",
		"addr", s.server.Addr,
		"rp_id", s.cfg.RelyingParty.RPID)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// startWorkers launches the background challenge sweeper and the
// resource gauge collector.
func (s *Server) startWorkers() {
	s.collector = metrics.StartResourceCollector(s.ctx, collectInterval)
	go s.sweepWorker()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	close(s.sweepStop)
	<-s.sweepDone
	s.cancel()

	if s.limiter != nil {
		s.limiter.Stop()
	}

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown server", "error", err)
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}

// sweepWorker reaps expired challenges and refreshes the store gauges.
func (s *Server) sweepWorker() {
	defer close(s.sweepDone)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.sweepStop:
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

// sweepOnce runs one sweep pass.
func (s *Server) sweepOnce() {
	swept, err := s.rp.SweepExpiredChallenges(context.Background())
	if err != nil {
		s.logger.Warn("Challenge sweep failed", "error", err)
		return
	}
	if swept > 0 {
		s.logger.Debug("Swept expired challenges", "count", swept)
	}

	metrics.AddChallengesSwept(float64(swept))
	metrics.SetChallengesOutstanding(float64(s.challenges.Count()))
	metrics.SetCredentialsTotal(float64(s.credentials.Count()))
}
