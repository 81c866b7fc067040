package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clube/internal/core"
)

// TransactionDraft carries the operator-supplied fields for a manual ledger
// entry. Amount is a decimal string; zero and negative values are accepted.
type TransactionDraft struct {
	Kind        string
	Category    string
	Description string
	Amount      string
	OccurredAt  string // YYYY-MM-DD
	Notes       string
}

// Ledger is the append-only transaction ledger.
type Ledger struct {
	store        TransactionStore
	openingCents int64
	recentLimit  int
}

func NewLedger(store TransactionStore, openingCents int64, recentLimit int) *Ledger {
	return &Ledger{store: store, openingCents: openingCents, recentLimit: recentLimit}
}

// Record validates and appends one ledger entry.
func (s *Ledger) Record(ctx context.Context, draft TransactionDraft) (core.Transaction, error) {
	cents, err := core.ParseCents(draft.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	occurred, err := time.Parse("2006-01-02", strings.TrimSpace(draft.OccurredAt))
	if err != nil {
		return core.Transaction{}, core.ErrInvalidDate
	}

	entry := core.Transaction{
		Kind:        core.TransactionKind(strings.TrimSpace(draft.Kind)),
		Category:    strings.TrimSpace(draft.Category),
		Description: strings.TrimSpace(draft.Description),
		Amount:      core.Money{Cents: cents},
		OccurredAt:  occurred,
		Notes:       strings.TrimSpace(draft.Notes),
	}
	if err := entry.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, entry)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}
	return created, nil
}

// ListByPeriod returns the period's transactions ascending by occurrence
// time; the period is the half-open [first, firstOfNext) range.
func (s *Ledger) ListByPeriod(ctx context.Context, month, year int) ([]core.Transaction, error) {
	if err := core.ValidatePeriod(month, year); err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactionsByPeriod(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %d/%d: %w", month, year, err)
	}
	return txs, nil
}

// ListRecent returns the latest entries, newest first.
func (s *Ledger) ListRecent(ctx context.Context, limit int) ([]core.Transaction, error) {
	if limit < 1 {
		limit = s.recentLimit
	}
	txs, err := s.store.ListRecentTransactions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return txs, nil
}

// PeriodBalance folds one period's transactions on top of the configured
// opening balance.
func (s *Ledger) PeriodBalance(ctx context.Context, month, year int) (core.Money, error) {
	txs, err := s.ListByPeriod(ctx, month, year)
	if err != nil {
		return core.Money{}, err
	}
	return core.RunningBalance(txs, core.Money{Cents: s.openingCents}), nil
}

// OpeningBalance returns the configured opening balance.
func (s *Ledger) OpeningBalance() core.Money {
	return core.Money{Cents: s.openingCents}
}
