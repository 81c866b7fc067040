package http

import (
	"net/http"
	"time"

	"clube/internal/core"
	"clube/internal/log"
)

type dueJSON struct {
	ID         int64  `json:"id"`
	MemberID   int64  `json:"member_id"`
	MemberName string `json:"member_name,omitempty"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Cents      int64  `json:"amount_cents"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
	PaidAt     string `json:"paid_at,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func toDueJSON(d core.DueRecord) dueJSON {
	out := dueJSON{
		ID:         d.ID,
		MemberID:   d.MemberID,
		MemberName: d.MemberName,
		Month:      d.Month,
		Year:       d.Year,
		Cents:      d.Amount.Cents,
		Amount:     formatReais(d.Amount.Cents),
		Status:     string(d.Status),
		Notes:      d.Notes,
	}
	if d.PaidAt != nil {
		out.PaidAt = d.PaidAt.Format(time.RFC3339)
	}
	return out
}

func toDueListJSON(dues []core.DueRecord) []dueJSON {
	out := make([]dueJSON, 0, len(dues))
	for _, d := range dues {
		out = append(out, toDueJSON(d))
	}
	return out
}

// handleListDues lists one period's dues, generating the period on first
// sight.
func (s *Server) handleListDues(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)

	dues, err := s.dues.ListPeriod(r.Context(), month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month": month,
		"year":  year,
		"dues":  toDueListJSON(dues),
	})
}

func (s *Server) handleDuesTotals(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)

	totals, err := s.dues.Totals(r.Context(), month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":         month,
		"year":          year,
		"paid_cents":    totals.Paid.Cents,
		"paid":          formatReais(totals.Paid.Cents),
		"pending_cents": totals.Pending.Cents,
		"pending":       formatReais(totals.Pending.Cents),
		"total_cents":   totals.Total.Cents,
		"total":         formatReais(totals.Total.Cents),
	})
}

// handleSettleDue marks a due paid. Settling an already-paid due answers 409
// and leaves the ledger untouched.
func (s *Server) handleSettleDue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid due id")
		return
	}

	due, err := s.dues.Settle(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// The settlement transaction lands in the current period, which may
	// differ from the due's own period.
	s.invalidatePeriod(due.Month, due.Year)
	if due.PaidAt != nil {
		s.invalidatePeriod(int(due.PaidAt.Month()), due.PaidAt.Year())
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Due settled via API",
		log.FieldDueID, due.ID, log.FieldMemberName, due.MemberName,
		log.FieldMonth, due.Month, log.FieldYear, due.Year)
	writeJSON(w, http.StatusOK, toDueJSON(due))
}
