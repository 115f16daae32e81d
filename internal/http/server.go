package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"budgetbook/internal/cache"
	"budgetbook/internal/core"
	applog "budgetbook/internal/log"
	"budgetbook/internal/services"
	appweb "budgetbook/web"
)

// Options tunes the server; zero values fall back to sane defaults.
type Options struct {
	PageSize int
	CacheTTL time.Duration
}

type Server struct {
	http.Server
	templates *template.Template
	logger    *applog.Logger

	plans    *services.PlanService
	expenses *services.ExpenseService
	budgets  *services.BudgetService
	reports  *services.ReportService

	pageSize    int
	rateLimiter *rateLimiter

	// Month-scoped report caches, keyed by "year-month" and invalidated
	// by the write paths for the affected month.
	summaryCache   *cache.LRUCache[services.BudgetSummary]
	breakdownCache *cache.LRUCache[[]services.CategoryRow]
	dailyCache     *cache.LRUCache[[]core.Money]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, plans *services.PlanService, expenses *services.ExpenseService, budgets *services.BudgetService, reports *services.ReportService, opts Options) *Server {
	if opts.PageSize < 1 {
		opts.PageSize = 10
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger:           applog.ForComponent(applog.ComponentHTTP),
		plans:            plans,
		expenses:         expenses,
		budgets:          budgets,
		reports:          reports,
		pageSize:         opts.PageSize,
		rateLimiter:      newRateLimiter(),
		summaryCache:     cache.NewLRUCache[services.BudgetSummary](100, opts.CacheTTL),
		breakdownCache:   cache.NewLRUCache[[]services.CategoryRow](100, opts.CacheTTL),
		dailyCache:       cache.NewLRUCache[[]core.Money](100, opts.CacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(template.FuncMap{
		"euros": formatEuros,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Pages
	mux.HandleFunc("GET /{$}", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("POST /plans", s.withSecurityHeaders(s.handleCreatePlan))
	mux.HandleFunc("GET /plans/edit/{id}", s.withSecurityHeaders(s.handleEditPlanPage))
	mux.HandleFunc("POST /plans/edit/{id}", s.withSecurityHeaders(s.handleUpdatePlan))
	mux.HandleFunc("POST /plans/delete/{id}", s.withSecurityHeaders(s.handleDeletePlan))

	mux.HandleFunc("GET /expenses", s.withSecurityHeaders(s.handleExpensesPage))
	mux.HandleFunc("POST /expenses", s.withSecurityHeaders(s.handleCreateExpense))
	mux.HandleFunc("GET /expenses/edit/{id}", s.withSecurityHeaders(s.handleEditExpensePage))
	mux.HandleFunc("POST /expenses/edit/{id}", s.withSecurityHeaders(s.handleUpdateExpense))
	mux.HandleFunc("POST /expenses/delete/{id}", s.withSecurityHeaders(s.handleDeleteExpense))

	mux.HandleFunc("GET /budgets", s.withSecurityHeaders(s.handleBudgetsPage))
	mux.HandleFunc("POST /budgets", s.withSecurityHeaders(s.handleAddBudget))
	mux.HandleFunc("POST /budgets/delete/{id}", s.withSecurityHeaders(s.handleDeleteBudget))

	// JSON API
	mux.HandleFunc("GET /api/plans", s.withSecurityHeaders(s.handleAPIPlans))
	mux.HandleFunc("GET /api/budgets", s.withSecurityHeaders(s.handleAPIBudgets))
	mux.HandleFunc("GET /api/plans/find_by_date", s.withSecurityHeaders(s.handleAPIFindPlansByDate))
	mux.HandleFunc("GET /api/plans/find_by_category", s.withSecurityHeaders(s.handleAPIFindPlansByCategory))
	mux.HandleFunc("GET /api/budget/summary/{month}/{year}", s.withSecurityHeaders(s.handleAPIBudgetSummary))
	mux.HandleFunc("GET /api/reports/categories/{month}/{year}", s.withSecurityHeaders(s.handleAPICategoryReport))
	mux.HandleFunc("GET /api/reports/daily/{month}/{year}", s.withSecurityHeaders(s.handleAPIDailyReport))

	return s
}

// withSecurityHeaders adds security headers, rate limiting and request
// logging to a handler.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := uuid.NewString()
		reqLogger := s.logger.With(applog.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), applog.LoggerContextKey, reqLogger)
		r = r.WithContext(ctx)

		reqLogger.InfoContext(ctx, "Request started",
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit write requests only
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		applog.HTTPEnd(ctx, s.logger, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) cacheKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

// invalidateMonth drops every cached report for the given month. Write
// handlers call it for each month a change may affect.
func (s *Server) invalidateMonth(year, month int) {
	key := s.cacheKey(year, month)
	s.summaryCache.Delete(key)
	s.breakdownCache.Delete(key)
	s.dailyCache.Delete(key)
}

func (s *Server) getSummary(ctx context.Context, month, year int) (services.BudgetSummary, error) {
	key := s.cacheKey(year, month)
	if data, found := s.summaryCache.Get(key); found {
		slog.DebugContext(ctx, "Summary cache hit", "year", year, "month", month)
		return data, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	data, err := s.reports.Summary(cctx, month, year)
	if err != nil {
		return services.BudgetSummary{}, fmt.Errorf("budget summary (month=%d, year=%d): %w", month, year, err)
	}
	s.summaryCache.Set(key, data)
	return data, nil
}

func (s *Server) getBreakdown(ctx context.Context, month, year int) ([]services.CategoryRow, error) {
	key := s.cacheKey(year, month)
	if rows, found := s.breakdownCache.Get(key); found {
		slog.DebugContext(ctx, "Breakdown cache hit", "year", year, "month", month)
		return rows, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	rows, err := s.reports.CategoryBreakdown(cctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("category breakdown (month=%d, year=%d): %w", month, year, err)
	}
	s.breakdownCache.Set(key, rows)
	return rows, nil
}

func (s *Server) getDaily(ctx context.Context, month, year int) ([]core.Money, error) {
	key := s.cacheKey(year, month)
	if totals, found := s.dailyCache.Get(key); found {
		slog.DebugContext(ctx, "Daily totals cache hit", "year", year, "month", month)
		return totals, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	totals, err := s.reports.DailyTotals(cctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("daily totals (month=%d, year=%d): %w", month, year, err)
	}
	s.dailyCache.Set(key, totals)
	return totals, nil
}

// startCacheCleanup runs periodic cleanup for the report caches.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := s.summaryCache.CleanExpired() +
				s.breakdownCache.CleanExpired() +
				s.dailyCache.CleanExpired()
			if cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
