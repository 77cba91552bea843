package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"showcase/internal/backend"
	"showcase/internal/cache"
	"showcase/internal/core"
	"showcase/internal/gallery"
	applog "showcase/internal/log"
	"showcase/internal/middleware/ratelimit"
	"showcase/internal/middleware/security"
	"showcase/internal/middleware/trace"
	appweb "showcase/web"
)

const (
	recordsCacheKey  = "records"
	recordsCacheSize = 4
	cacheCleanup     = 10 * time.Minute
	loadTimeout      = 7 * time.Second
	staticMaxAge     = 3600
)

type Server struct {
	http.Server
	templates  *template.Template
	backend    backend.Backend
	logger     *applog.Logger
	sl         *applog.StructuredLogger
	components []core.Component

	// Only the loaded record list is cached, never filter output.
	recordsCache *cache.LRUCache[[]core.Record]
	cacheManager *cache.Manager
	loadGroup    singleflight.Group
	generation   atomic.Uint64

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	appMetrics   appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	created atomic.Int64
	deleted atomic.Int64
	exports atomic.Int64
	started time.Time
}

// Options configures NewServer. A zero RecordsCacheTTL disables caching.
type Options struct {
	Addr            string
	Backend         backend.Backend
	Logger          *applog.Logger
	RecordsCacheTTL time.Duration
	RateLimit       ratelimit.Config
	// BlockSuspicious answers suspicious requests with 403 instead of only logging them.
	BlockSuspicious bool
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	rl := opts.RateLimit
	if rl.RequestsPerMinute == 0 && len(rl.Methods) == 0 {
		rl = ratelimit.DefaultConfig()
	}

	s := &Server{
		backend:          opts.Backend,
		logger:           logger,
		sl:               applog.NewStructuredLogger(logger),
		components:       gallery.Components(),
		cacheManager:     cache.NewManager(),
		rateLimiter:      ratelimit.NewLimiter(rl),
		securityDetector: security.NewDetector(),
	}
	s.appMetrics.started = time.Now()
	s.traceMiddleware = trace.NewMiddleware(logger, s.securityDetector.ExtractClientIP)

	if opts.RecordsCacheTTL > 0 {
		s.recordsCache = cache.NewLRUCache[[]core.Record](recordsCacheSize, opts.RecordsCacheTTL)
		s.cacheManager.Register(s.recordsCache)
		s.cacheManager.StartCleanup(cacheCleanup)
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(staticMaxAge)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /data", s.handleData)
	mux.HandleFunc("GET /data/export.xlsx", s.handleExport)
	mux.HandleFunc("GET /ui/records", s.handleRecordsPartial)
	mux.HandleFunc("GET /api/records", s.handleRecordsJSON)
	mux.HandleFunc("/records", s.handleCreateRecord)
	mux.HandleFunc("/records/delete", s.handleDeleteRecord)

	mux.HandleFunc("GET /components", s.handleComponents)
	mux.HandleFunc("GET /ui/components", s.handleComponentsPartial)
	mux.HandleFunc("GET /components/{id}", s.handleComponentDetail)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimited)

	var h http.Handler = mux
	h = limit(h)
	h = s.securityDetector.Middleware(opts.BlockSuspicious)(h)
	h = headers.Middleware(h)
	h = s.traceMiddleware.Middleware(h)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	NewHTMXResponse().
		Status(http.StatusTooManyRequests).
		TriggerErrorNotification("リクエストが多すぎます。しばらくしてから再試行してください").
		BodyHTML(`<div class="error">リクエストが多すぎます</div>`).
		Write(w)
}

// Shutdown stops background cleanup and then the HTTP server. Safe to call twice.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// loadRecords returns the full record list, served from the cache when fresh.
// Concurrent misses share a single backend call.
func (s *Server) loadRecords(ctx context.Context) ([]core.Record, error) {
	if s.recordsCache != nil {
		if recs, ok := s.recordsCache.Get(recordsCacheKey); ok {
			return recs, nil
		}
	}

	gen := s.generation.Load()
	v, err, _ := s.loadGroup.Do(recordsCacheKey, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		recs, err := s.backend.ListRecords(ctx)
		if err != nil {
			return nil, err
		}
		if recs == nil {
			recs = []core.Record{}
		}
		// A write during the load makes this list stale.
		if s.recordsCache != nil && s.generation.Load() == gen {
			s.recordsCache.Set(recordsCacheKey, recs)
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]core.Record), nil
}

func (s *Server) invalidateRecords() {
	s.generation.Add(1)
	if s.recordsCache != nil {
		s.recordsCache.Purge()
	}
}
