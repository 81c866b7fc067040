package services

import (
	"context"
	"errors"
	"testing"

	"clube/internal/core"
	"clube/internal/storage/memory"
)

func recordEntry(t *testing.T, ledger *Ledger, kind, category, amount, date string) core.Transaction {
	t.Helper()
	entry, err := ledger.Record(context.Background(), TransactionDraft{
		Kind:        kind,
		Category:    category,
		Description: category + " entry",
		Amount:      amount,
		OccurredAt:  date,
	})
	if err != nil {
		t.Fatalf("Record(%s %s %s) error = %v", kind, category, amount, err)
	}
	return entry
}

func TestRecordParsesAmount(t *testing.T) {
	ledger := NewLedger(memory.New(), 0, 10)

	entry := recordEntry(t, ledger, "income", "donation", "150,50", "2025-06-10")
	if entry.Amount.Cents != 15050 {
		t.Errorf("Record() amount = %d cents, want 15050", entry.Amount.Cents)
	}
	if entry.ID == 0 {
		t.Error("Record() did not assign an ID")
	}
}

func TestRecordValidation(t *testing.T) {
	tests := []struct {
		name    string
		draft   TransactionDraft
		wantErr error
	}{
		{
			"bad amount",
			TransactionDraft{Kind: "income", Category: "donation", Description: "d", Amount: "abc", OccurredAt: "2025-06-10"},
			core.ErrInvalidAmount,
		},
		{
			"bad date",
			TransactionDraft{Kind: "income", Category: "donation", Description: "d", Amount: "10", OccurredAt: "10/06/2025"},
			core.ErrInvalidDate,
		},
		{
			"bad kind",
			TransactionDraft{Kind: "transfer", Category: "donation", Description: "d", Amount: "10", OccurredAt: "2025-06-10"},
			core.ErrInvalidKind,
		},
		{
			"empty category",
			TransactionDraft{Kind: "income", Category: " ", Description: "d", Amount: "10", OccurredAt: "2025-06-10"},
			core.ErrEmptyCategory,
		},
		{
			"empty description",
			TransactionDraft{Kind: "income", Category: "donation", Description: "", Amount: "10", OccurredAt: "2025-06-10"},
			core.ErrEmptyDescription,
		},
	}

	ledger := NewLedger(memory.New(), 0, 10)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ledger.Record(context.Background(), tt.draft); !errors.Is(err, tt.wantErr) {
				t.Errorf("Record() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecordAcceptsZeroAndNegative(t *testing.T) {
	ledger := NewLedger(memory.New(), 0, 10)

	if got := recordEntry(t, ledger, "income", "other", "0", "2025-06-10"); got.Amount.Cents != 0 {
		t.Errorf("zero amount stored as %d cents", got.Amount.Cents)
	}
	if got := recordEntry(t, ledger, "expense", "other", "-25.00", "2025-06-11"); got.Amount.Cents != -2500 {
		t.Errorf("negative amount stored as %d cents, want -2500", got.Amount.Cents)
	}
}

func TestListByPeriodBoundaries(t *testing.T) {
	ledger := NewLedger(memory.New(), 0, 10)

	recordEntry(t, ledger, "income", "donation", "10", "2025-05-31")
	recordEntry(t, ledger, "income", "donation", "20", "2025-06-01")
	recordEntry(t, ledger, "expense", "material", "5", "2025-06-30")
	recordEntry(t, ledger, "income", "donation", "40", "2025-07-01")

	txs, err := ledger.ListByPeriod(context.Background(), 6, 2025)
	if err != nil {
		t.Fatalf("ListByPeriod() error = %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("ListByPeriod() = %d entries, want 2", len(txs))
	}
	if txs[0].Amount.Cents != 2000 || txs[1].Amount.Cents != 500 {
		t.Errorf("ListByPeriod() amounts = %d, %d", txs[0].Amount.Cents, txs[1].Amount.Cents)
	}
}

func TestPeriodBalance(t *testing.T) {
	ledger := NewLedger(memory.New(), 10000, 10)

	recordEntry(t, ledger, "income", "donation", "200", "2025-06-10")
	recordEntry(t, ledger, "expense", "material", "75", "2025-06-15")

	balance, err := ledger.PeriodBalance(context.Background(), 6, 2025)
	if err != nil {
		t.Fatalf("PeriodBalance() error = %v", err)
	}
	if balance.Cents != 22500 {
		t.Errorf("PeriodBalance() = %d cents, want 22500", balance.Cents)
	}
}

func TestListRecentFallsBackToConfiguredLimit(t *testing.T) {
	ledger := NewLedger(memory.New(), 0, 2)

	recordEntry(t, ledger, "income", "donation", "10", "2025-06-10")
	recordEntry(t, ledger, "income", "donation", "20", "2025-06-11")
	recordEntry(t, ledger, "income", "donation", "30", "2025-06-12")

	txs, err := ledger.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("ListRecent(0) = %d entries, want configured 2", len(txs))
	}
	if txs[0].Amount.Cents != 3000 {
		t.Errorf("ListRecent() first amount = %d cents, want newest 3000", txs[0].Amount.Cents)
	}
}
