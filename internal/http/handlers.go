package http

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/session"
	"spendlog/internal/view"
)

// handleIndex serves the full document shell with the active view's
// fragment already embedded.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// "/" is the mux catch-all; anything else is an unknown path.
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	active := s.sess.ActiveView()
	content, err := s.pageFragment(r.Context(), active)
	if err != nil {
		s.fragmentError(w, r, active, err)
		return
	}

	data := indexPage{
		Nav:     view.Nav(active),
		Active:  active,
		Content: template.HTML(content),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeInternal)
	}
}

// handleSubmitExpense runs the submission command. Success responds
// with an empty body and the trigger set the front-end reacts to; a
// rejection responds 422 with only the fixed error notice, leaving the
// form as the user typed it.
func (s *Server) handleSubmitExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	if _, err := s.sess.SubmitExpense(r.Context(), formFields(r.Form)); err != nil {
		atomic.AddInt64(&s.appMetrics.submissionsRejected, 1)
		s.notice(NewHTMXResponse().Status(http.StatusUnprocessableEntity),
			NoticeError, session.InvalidMessage).Write(w)
		return
	}

	atomic.AddInt64(&s.appMetrics.expensesRecorded, 1)
	// Dashboard totals changed; cached fragments are stale now.
	s.pageCache.Flush()

	resp := NewHTMXResponse().
		TriggerFormReset().
		TriggerViewRefresh(core.ViewDashboard)
	s.notice(resp, NoticeSuccess, session.SuccessMessage).Write(w)
}

// handleSwitchView flips the active view and responds with the new
// view's fragment for the htmx swap.
func (s *Server) handleSwitchView(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	active, err := s.sess.SwitchView(r.Context(), r.Form.Get("view"))
	if err != nil {
		NotFoundError("Unknown view").Write(w)
		return
	}
	atomic.AddInt64(&s.appMetrics.viewSwitches, 1)

	content, err := s.pageFragment(r.Context(), active)
	if err != nil {
		s.fragmentError(w, r, active, err)
		return
	}

	NewHTMXResponse().
		TriggerViewActive(active).
		BodyHTML(content).
		Write(w)
}

// handlePage re-renders the fragment for whichever view is active. The
// front-end calls it after a view:refresh event.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	active := s.sess.ActiveView()
	content, err := s.pageFragment(r.Context(), active)
	if err != nil {
		s.fragmentError(w, r, active, err)
		return
	}

	NewHTMXResponse().
		TriggerViewActive(active).
		BodyHTML(content).
		Write(w)
}

// notice attaches a show-notice trigger and counts it for /metrics.
func (s *Server) notice(b *HTMXResponseBuilder, kind NoticeType, message string) *HTMXResponseBuilder {
	atomic.AddInt64(&s.appMetrics.noticesShown, 1)
	return b.TriggerNotice(kind, message)
}

func (s *Server) fragmentError(w http.ResponseWriter, r *http.Request, v core.View, err error) {
	s.logger.ErrorContext(r.Context(), "Page render failed",
		log.FieldView, v.String(),
		log.FieldOperation, log.OpRender,
		log.FieldError, err.Error(),
		log.FieldErrorType, log.ErrorTypeInternal)
	InternalServerError("Could not render the page").Write(w)
}

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.startedAt).String(),
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(health)
}

// handleReady performs a readiness check with dependency verification.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.sess == nil {
		checks["session"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["session"] = "ok"
	}

	checks["cache"] = map[string]any{
		"page_entries": s.pageCache.Size(),
		"status":       "ok",
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}

// handleMetrics provides application and security metrics in plain text
// format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.detector.GetMetrics()
	rateLimitMetrics := s.limiter.GetMetrics()
	traceMetrics := s.tracer.GetMetrics()

	expensesRecorded := atomic.LoadInt64(&s.appMetrics.expensesRecorded)
	submissionsRejected := atomic.LoadInt64(&s.appMetrics.submissionsRejected)
	viewSwitches := atomic.LoadInt64(&s.appMetrics.viewSwitches)
	noticesShown := atomic.LoadInt64(&s.appMetrics.noticesShown)
	cacheHits := atomic.LoadInt64(&s.appMetrics.cacheHits)
	cacheMisses := atomic.LoadInt64(&s.appMetrics.cacheMisses)
	uptime := time.Since(s.appMetrics.startedAt)

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_request_duration_micros_avg Average request latency in microseconds\n")
	fmt.Fprintf(w, "# TYPE http_request_duration_micros_avg gauge\n")
	fmt.Fprintf(w, "http_request_duration_micros_avg %d\n\n", traceMetrics.AverageResponseTime)

	fmt.Fprintf(w, "# HELP expenses_recorded_total Total number of expenses recorded\n")
	fmt.Fprintf(w, "# TYPE expenses_recorded_total counter\n")
	fmt.Fprintf(w, "expenses_recorded_total %d\n\n", expensesRecorded)

	fmt.Fprintf(w, "# HELP submissions_rejected_total Total number of rejected submissions\n")
	fmt.Fprintf(w, "# TYPE submissions_rejected_total counter\n")
	fmt.Fprintf(w, "submissions_rejected_total %d\n\n", submissionsRejected)

	fmt.Fprintf(w, "# HELP view_switches_total Total number of view switches\n")
	fmt.Fprintf(w, "# TYPE view_switches_total counter\n")
	fmt.Fprintf(w, "view_switches_total %d\n\n", viewSwitches)

	fmt.Fprintf(w, "# HELP notices_shown_total Total notices sent to the front-end\n")
	fmt.Fprintf(w, "# TYPE notices_shown_total counter\n")
	fmt.Fprintf(w, "notices_shown_total %d\n\n", noticesShown)

	fmt.Fprintf(w, "# HELP cache_hits_total Total page cache hits\n")
	fmt.Fprintf(w, "# TYPE cache_hits_total counter\n")
	fmt.Fprintf(w, "cache_hits_total %d\n\n", cacheHits)

	fmt.Fprintf(w, "# HELP cache_misses_total Total page cache misses\n")
	fmt.Fprintf(w, "# TYPE cache_misses_total counter\n")
	fmt.Fprintf(w, "cache_misses_total %d\n\n", cacheMisses)

	fmt.Fprintf(w, "# HELP cache_entries Current cache entries\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	fmt.Fprintf(w, "cache_entries{type=\"page\"} %d\n\n", s.pageCache.Size())

	fmt.Fprintf(w, "# HELP rate_limit_denied_total Total requests denied by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_denied_total counter\n")
	fmt.Fprintf(w, "rate_limit_denied_total %d\n\n", rateLimitMetrics.TotalDenied)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP invalid_ip_attempts_total Total forwarded-header values that failed to parse\n")
	fmt.Fprintf(w, "# TYPE invalid_ip_attempts_total counter\n")
	fmt.Fprintf(w, "invalid_ip_attempts_total %d\n\n", securityMetrics.InvalidIPAttempts)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", uptime.Seconds())
}
