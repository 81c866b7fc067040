// Package http exposes the club's operations as a JSON API.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"clube/internal/auth"
	"clube/internal/cache"
	"clube/internal/core"
	"clube/internal/log"
	"clube/internal/services"
	"clube/internal/taxonomy"
)

// Deps bundles everything the server needs.
type Deps struct {
	Registry    *services.Registry
	Dues        *services.Dues
	Ledger      *services.Ledger
	Reports     *services.Reports
	Events      *services.Events
	Taxonomy    taxonomy.Lists
	RecentLimit int
}

type Server struct {
	http.Server
	registry    *services.Registry
	dues        *services.Dues
	ledger      *services.Ledger
	reports     *services.Reports
	events      *services.Events
	taxonomy    taxonomy.Lists
	recentLimit int
	logger      *log.Logger

	rateLimiter *rateLimiter

	// Report reads are cached per period and invalidated by the writes
	// that change them.
	summaryCache *cache.LRUCache[core.DuesSummary]
	flowCache    *cache.LRUCache[core.CashFlow]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	logCfg := log.DefaultConfig()
	logCfg.Component = log.ComponentHTTP

	s := &Server{
		registry:     deps.Registry,
		dues:         deps.Dues,
		ledger:       deps.Ledger,
		reports:      deps.Reports,
		events:       deps.Events,
		taxonomy:     deps.Taxonomy,
		recentLimit:  deps.RecentLimit,
		logger:       log.New(logCfg),
		rateLimiter:  newRateLimiter(60),
		summaryCache: cache.NewLRUCache[core.DuesSummary](100, 5*time.Minute),
		flowCache:    cache.NewLRUCache[core.CashFlow](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	s.Server = http.Server{
		Addr:    addr,
		Handler: auth.Middleware(mux),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.flowCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.withSecurity(s.handleDashboard))
	mux.HandleFunc("GET /api/taxonomy", s.withSecurity(s.handleTaxonomy))

	mux.HandleFunc("GET /api/members", s.withSecurity(s.handleListMembers))
	mux.HandleFunc("POST /api/members", s.withSecurity(s.staffOnly(s.handleRegisterMember)))
	mux.HandleFunc("GET /api/members/{id}", s.withSecurity(s.handleGetMember))
	mux.HandleFunc("PUT /api/members/{id}", s.withSecurity(s.staffOnly(s.handleUpdateMember)))
	mux.HandleFunc("DELETE /api/members/{id}", s.withSecurity(s.staffOnly(s.handleDeactivateMember)))
	mux.HandleFunc("GET /api/members/{id}/dues", s.withSecurity(s.handleMemberDues))

	mux.HandleFunc("GET /api/dues", s.withSecurity(s.handleListDues))
	mux.HandleFunc("GET /api/dues/totals", s.withSecurity(s.handleDuesTotals))
	mux.HandleFunc("POST /api/dues/{id}/settle", s.withSecurity(s.staffOnly(s.handleSettleDue)))

	mux.HandleFunc("GET /api/transactions", s.withSecurity(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withSecurity(s.staffOnly(s.handleRecordTransaction)))
	mux.HandleFunc("GET /api/transactions/recent", s.withSecurity(s.handleRecentTransactions))
	mux.HandleFunc("GET /api/transactions/balance", s.withSecurity(s.handlePeriodBalance))

	mux.HandleFunc("GET /api/reports/dues-summary", s.withSecurity(s.handleDuesSummary))
	mux.HandleFunc("GET /api/reports/cash-flow", s.withSecurity(s.handleCashFlow))
	mux.HandleFunc("GET /api/reports/net-worth", s.withSecurity(s.handleNetWorth))
	mux.HandleFunc("GET /api/reports/categories", s.withSecurity(s.handleCategoryBreakdown))
	mux.HandleFunc("GET /api/reports/demographics", s.withSecurity(s.handleDemographics))

	mux.HandleFunc("GET /api/events/upcoming", s.withSecurity(s.handleUpcomingEvents))
	mux.HandleFunc("POST /api/events", s.withSecurity(s.staffOnly(s.handleScheduleEvent)))
	mux.HandleFunc("GET /api/calendar", s.withSecurity(s.handleCalendar))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurity adds security headers, rate limiting, and request logging.
func (s *Server) withSecurity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		reqLogger := s.logger.With(log.FieldRequestID, requestID, log.FieldClientIP, clientIP)
		ctx := log.IntoContext(r.Context(), reqLogger)
		r = r.WithContext(ctx)

		reqLogger.InfoContext(ctx, "Request started",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			reqLogger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		reqLogger.InfoContext(ctx, "Request completed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds())
	}
}

// staffOnly guards mutating routes behind a staff principal.
func (s *Server) staffOnly(next http.HandlerFunc) http.HandlerFunc {
	guarded := auth.RequireStaff(next)
	return func(w http.ResponseWriter, r *http.Request) {
		guarded.ServeHTTP(w, r)
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

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleReady verifies the store answers before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.ledger.ListRecent(ctx, 1); err != nil {
		s.logger.ErrorContext(ctx, "Readiness check failed", log.FieldError, err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"units":              s.taxonomy.Units,
		"classes":            s.taxonomy.Classes,
		"specialties":        s.taxonomy.Specialties,
		"income_categories":  s.taxonomy.IncomeCategories,
		"expense_categories": s.taxonomy.ExpenseCategories,
	})
}

func periodCacheKey(month, year int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

func (s *Server) invalidatePeriod(month, year int) {
	key := periodCacheKey(month, year)
	s.summaryCache.Delete(key)
	s.flowCache.Delete(key)
}
