package http

import (
	"encoding/json"
	"net/http"

	"clube/internal/core"
	"clube/internal/log"
	"clube/internal/services"
)

type transactionPayload struct {
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	OccurredAt  string `json:"occurred_at"`
	Notes       string `json:"notes"`
}

type transactionJSON struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Cents       int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	OccurredAt  string `json:"occurred_at"`
	Notes       string `json:"notes,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Category:    t.Category,
		Description: t.Description,
		Cents:       t.Amount.Cents,
		Amount:      formatReais(t.Amount.Cents),
		OccurredAt:  t.OccurredAt.Format("2006-01-02"),
		Notes:       t.Notes,
	}
}

func toTransactionListJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.ledger.Record(r.Context(), services.TransactionDraft{
		Kind:        sanitizeInput(payload.Kind),
		Category:    sanitizeInput(payload.Category),
		Description: sanitizeInput(payload.Description),
		Amount:      sanitizeInput(payload.Amount),
		OccurredAt:  sanitizeInput(payload.OccurredAt),
		Notes:       sanitizeInput(payload.Notes),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidatePeriod(int(entry.OccurredAt.Month()), entry.OccurredAt.Year())
	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction recorded via API",
		log.FieldTxID, entry.ID, log.FieldTxKind, string(entry.Kind),
		log.FieldTxCategory, entry.Category, log.FieldAmountCents, entry.Amount.Cents)
	writeJSON(w, http.StatusCreated, toTransactionJSON(entry))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)

	txs, err := s.ledger.ListByPeriod(r.Context(), month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":        month,
		"year":         year,
		"transactions": toTransactionListJSON(txs),
	})
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListRecent(r.Context(), s.recentLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": toTransactionListJSON(txs),
	})
}

func (s *Server) handlePeriodBalance(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)

	balance, err := s.ledger.PeriodBalance(r.Context(), month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	opening := s.ledger.OpeningBalance()
	writeJSON(w, http.StatusOK, map[string]any{
		"month":         month,
		"year":          year,
		"opening_cents": opening.Cents,
		"opening":       formatReais(opening.Cents),
		"balance_cents": balance.Cents,
		"balance":       formatReais(balance.Cents),
	})
}
