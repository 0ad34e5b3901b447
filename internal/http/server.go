package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/Karthikn9883/fpna-agent/internal/analysis"
	"github.com/Karthikn9883/fpna-agent/internal/cache"
	applog "github.com/Karthikn9883/fpna-agent/internal/log"
	"github.com/Karthikn9883/fpna-agent/internal/services"
)

// answerCacheSize bounds the answer cache. Keys include the dataset
// fingerprint, so entries for stale datasets age out on their own.
const answerCacheSize = 256

// Config holds server wiring.
type Config struct {
	Addr      string
	AnswerTTL time.Duration
	Log       zerolog.Logger
	Datasets  *services.DatasetService
	Analysis  *analysis.Service
}

// appMetrics tracks application counters exposed on /metrics.
type appMetrics struct {
	requestsTotal     int64
	questionsAnswered int64
	cacheHits         int64
	cacheMisses       int64
	startedAt         time.Time
}

// Server answers questions over a chi router.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	datasets *services.DatasetService
	analysis *analysis.Service

	answers cache.Cache[askResponse]
	cleaner *cache.Manager
	limiter *rateLimiter
	secs    *securityMetrics
	app     *appMetrics

	shutdownOnce sync.Once
}

// New wires routes, middleware, and caches into a ready-to-run server.
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      applog.WithComponent(cfg.Log, applog.ComponentHTTP),
		datasets: cfg.Datasets,
		analysis: cfg.Analysis,
		limiter:  newRateLimiter(),
		secs:     &securityMetrics{},
		app:      &appMetrics{startedAt: time.Now()},
	}

	answers := cache.NewLRUCache[askResponse](answerCacheSize, cfg.AnswerTTL)
	s.answers = answers

	s.cleaner = cache.NewManager(applog.WithComponent(cfg.Log, applog.ComponentCache))
	s.cleaner.Register(answers)
	s.cleaner.StartCleanup(10 * time.Minute)

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:           cfg.Addr,
		Handler:        s.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.Recoverer)
	s.router.Use(applog.RequestID)
	s.router.Use(applog.Requests(s.log))
	s.router.Use(s.guard)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleReady)
	s.router.Get("/metrics", s.handleMetrics)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/ask", s.handleAsk)
		r.Get("/months", s.handleMonths)
		r.Get("/cash", s.handleCash)

		r.Get("/revenue-vs-budget", s.handleOperation(analysis.OpRevenueVsBudget))
		r.Get("/gm-trend", s.handleOperation(analysis.OpGMTrend))
		r.Get("/opex-breakdown", s.handleOperation(analysis.OpOpexBreakdown))
		r.Get("/cash-runway", s.handleOperation(analysis.OpCashRunway))
		r.Get("/revenue-analysis", s.handleOperation(analysis.OpRevenueAnalysis))
		r.Get("/financial-performance", s.handleOperation(analysis.OpFinancialPerformance))
		r.Get("/data-coverage", s.handleOperation(analysis.OpDataCoverage))
	})
}

// guard applies security headers, rate limiting, and probe detection.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.app.requestsTotal, 1)

		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, s.secs) {
			s.log.Warn().
				Str("client_ip", clientIP).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("suspicious request")
		}

		if r.Method == http.MethodPost && !s.limiter.allow(clientIP, s.secs) {
			s.log.Warn().
				Str("client_ip", clientIP).
				Str("path", r.URL.Path).
				Msg("rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cleaner.Stop()
		s.limiter.stop()

		s.log.Debug().
			Int64("rate_limit_hits", atomic.LoadInt64(&s.secs.rateLimitHits)).
			Int64("suspicious_requests", atomic.LoadInt64(&s.secs.suspiciousRequests)).
			Msg("security counters at shutdown")

		shutdownErr = s.server.Shutdown(ctx)
	})

	return shutdownErr
}
