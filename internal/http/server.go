// Package http is the browser-facing adapter: it parses form
// submissions into session commands, renders view fragments for htmx
// swaps, and exposes the operational endpoints. All application state
// stays behind the session; handlers hold none of it.
package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"spendlog/internal/cache"
	"spendlog/internal/config"
	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/middleware/ratelimit"
	"spendlog/internal/middleware/security"
	"spendlog/internal/middleware/trace"
	"spendlog/internal/session"
	"spendlog/internal/view"
	"spendlog/web"
)

// Server wires the session controller to the router and carries the
// middleware stack plus the page-fragment cache.
type Server struct {
	http.Server

	logger     *log.Logger
	sess       *session.Session
	templates  *template.Template
	categories []string

	pageCache    *cache.LRUCache[string]
	cacheManager *cache.Manager

	limiter  *ratelimit.Limiter
	detector *security.Detector
	headers  *security.HeadersMiddleware
	tracer   *trace.Middleware

	appMetrics appMetrics

	shutdownOnce sync.Once
}

// appMetrics are process-lifetime counters exposed on /metrics.
type appMetrics struct {
	startedAt time.Time

	expensesRecorded    int64
	submissionsRejected int64
	viewSwitches        int64
	noticesShown        int64
	cacheHits           int64
	cacheMisses         int64
}

// loggerPage is the template data for the intake form view.
type loggerPage struct {
	Categories []string
	TodayISO   string
}

// indexPage is the template data for the full document shell.
type indexPage struct {
	Nav     []view.NavLink
	Active  core.View
	Content template.HTML
}

// NewServer configures routes, templates and middleware, returning a
// ready-to-run server. Template or asset problems surface here rather
// than on the first request; both are embedded, so failure means a bad
// build.
func NewServer(cfg *config.Config, sess *session.Session, categories []string, logger *log.Logger) (*Server, error) {
	templates, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	staticRoot, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	s := &Server{
		logger:     logger.WithComponent(log.ComponentHTTP),
		sess:       sess,
		templates:  templates,
		categories: categories,

		pageCache:    cache.NewLRUCache[string](cfg.CacheMaxEntries, cfg.CacheTTL),
		cacheManager: cache.NewManager(logger),

		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
		detector: security.NewDetector(),
		headers:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)
	s.appMetrics.startedAt = time.Now()

	s.cacheManager.Register(s.pageCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()

	static := http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot)))
	mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))

	// Only the mutating routes are rate limited; reads are cheap.
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)

	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/expenses", limited(http.HandlerFunc(s.handleSubmitExpense)))
	mux.Handle("/views", limited(http.HandlerFunc(s.handleSwitchView)))
	mux.HandleFunc("/ui/page", s.handlePage)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	handler := s.tracer.Middleware(s.headers.Middleware(s.observed(mux)))

	s.Server = http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}

	return s, nil
}

// Shutdown stops the background loops and then the HTTP server. Safe to
// call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// observed flags probe-looking requests before routing. Detection only
// logs and counts; odd-but-legitimate traffic still gets served.
func (s *Server) observed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			s.logger.WarnContext(r.Context(), "Suspicious request detected",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
}

// pageFragment returns the rendered fragment for a view, serving from
// the page cache when possible. Fragments are keyed by view name and
// flushed on every successful submission; the TTL bounds how long a
// stale form date can survive past midnight.
func (s *Server) pageFragment(ctx context.Context, v core.View) (string, error) {
	key := v.String()
	if html, ok := s.pageCache.Get(key); ok {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		s.logger.DebugContext(ctx, "Page fragment served from cache",
			log.FieldView, key,
			log.FieldOperation, log.OpRender)
		return html, nil
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	html, err := s.renderPage(v)
	if err != nil {
		return "", err
	}
	s.pageCache.Set(key, html)
	return html, nil
}

func (s *Server) renderPage(v core.View) (string, error) {
	state := s.sess.Snapshot()

	var buf bytes.Buffer
	var err error
	switch v {
	case core.ViewLogger:
		data := loggerPage{Categories: s.categories, TodayISO: state.Today.ISO()}
		err = s.templates.ExecuteTemplate(&buf, "page_logger.html", data)
	case core.ViewDashboard:
		err = s.templates.ExecuteTemplate(&buf, "page_dashboard.html", view.Render(state))
	default:
		err = fmt.Errorf("no page template for view %q", v)
	}
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
