package http

import (
	"net/http"
	"sort"
	"strings"

	"clube/internal/core"
	"clube/internal/log"
)

func toSummaryJSON(summary core.DuesSummary) map[string]any {
	return map[string]any{
		"month":          summary.Month,
		"year":           summary.Year,
		"total_count":    summary.TotalCount,
		"paid_count":     summary.PaidCount,
		"pending_count":  summary.PendingCount,
		"overdue_count":  summary.OverdueCount,
		"amount_total":   formatReais(summary.AmountTotal.Cents),
		"amount_paid":    formatReais(summary.AmountPaid.Cents),
		"amount_pending": formatReais(summary.AmountPending.Cents),
		"percent_paid":   summary.PercentPaid,
	}
}

func (s *Server) handleDuesSummary(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)
	key := periodCacheKey(month, year)

	if summary, found := s.summaryCache.Get(key); found {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Dues summary cache hit",
			log.FieldMonth, month, log.FieldYear, year)
		writeJSON(w, http.StatusOK, toSummaryJSON(summary))
		return
	}

	summary, err := s.reports.DuesSummary(r.Context(), month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, toSummaryJSON(summary))
}

func toFlowJSON(flow core.CashFlow) map[string]any {
	return map[string]any{
		"month":         flow.Month,
		"year":          flow.Year,
		"income_cents":  flow.IncomeTotal.Cents,
		"income":        formatReais(flow.IncomeTotal.Cents),
		"expense_cents": flow.ExpenseTotal.Cents,
		"expense":       formatReais(flow.ExpenseTotal.Cents),
		"net_cents":     flow.NetBalance.Cents,
		"net":           formatReais(flow.NetBalance.Cents),
		"transactions":  toTransactionListJSON(flow.Transactions),
	}
}

func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)
	key := periodCacheKey(month, year)

	if flow, found := s.flowCache.Get(key); found {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Cash flow cache hit",
			log.FieldMonth, month, log.FieldYear, year)
		writeJSON(w, http.StatusOK, toFlowJSON(flow))
		return
	}

	flow, err := s.reports.CashFlow(r.Context(), month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.flowCache.Set(key, flow)
	writeJSON(w, http.StatusOK, toFlowJSON(flow))
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	worth, err := s.reports.NetWorth(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"income_cents":  worth.IncomeTotal.Cents,
		"income":        formatReais(worth.IncomeTotal.Cents),
		"expense_cents": worth.ExpenseTotal.Cents,
		"expense":       formatReais(worth.ExpenseTotal.Cents),
		"net_cents":     worth.NetWorth.Cents,
		"net":           formatReais(worth.NetWorth.Cents),
	})
}

// handleCategoryBreakdown sums one ledger side per category. The kind query
// parameter defaults to income.
func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	kind := core.TransactionKind(strings.TrimSpace(r.URL.Query().Get("kind")))
	if kind == "" {
		kind = core.Income
	}

	breakdown, err := s.reports.CategoryBreakdown(r.Context(), kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type categoryRow struct {
		Category string `json:"category"`
		Cents    int64  `json:"amount_cents"`
		Amount   string `json:"amount"`
	}
	rows := make([]categoryRow, 0, len(breakdown))
	for category, amount := range breakdown {
		rows = append(rows, categoryRow{
			Category: category,
			Cents:    amount.Cents,
			Amount:   formatReais(amount.Cents),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Cents == rows[j].Cents {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Cents > rows[j].Cents
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"kind":       string(kind),
		"categories": rows,
	})
}

func (s *Server) handleDemographics(w http.ResponseWriter, r *http.Request) {
	demo, err := s.reports.MemberDemographics(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_active":   demo.TotalActive,
		"by_unit":        demo.ByUnit,
		"by_class":       demo.ByClass,
		"by_age_bracket": demo.ByAgeBracket,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)

	stats, err := s.reports.Dashboard(r.Context(), month, year, s.recentLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":           month,
		"year":            year,
		"total_active":    stats.TotalActive,
		"dues_paid":       stats.DuesPaid,
		"dues_pending":    stats.DuesPending,
		"dues_overdue":    stats.DuesOverdue,
		"collected_cents": stats.Collected.Cents,
		"collected":       formatReais(stats.Collected.Cents),
		"recent_members":  toMemberListJSON(stats.RecentMembers),
		"recent_ledger":   toTransactionListJSON(stats.RecentLedger),
	})
}
