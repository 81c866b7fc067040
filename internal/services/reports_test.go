package services

import (
	"context"
	"testing"

	"clube/internal/core"
	"clube/internal/storage/memory"
)

func newTestReports(t *testing.T, memberNames ...string) (*Reports, *Dues, *memory.Store) {
	t.Helper()
	dues, store := newTestDues(t, memberNames...)
	return NewReports(store, dues, store), dues, store
}

func TestDuesSummaryPercentPaid(t *testing.T) {
	reports, dues, _ := newTestReports(t, "Ana", "Bruno", "Carla")
	ctx := context.Background()

	records, err := dues.ListPeriod(ctx, 6, 2025)
	if err != nil {
		t.Fatalf("ListPeriod() error = %v", err)
	}
	for _, r := range records[:2] {
		if _, err := dues.Settle(ctx, r.ID); err != nil {
			t.Fatalf("Settle() error = %v", err)
		}
	}

	summary, err := reports.DuesSummary(ctx, 6, 2025)
	if err != nil {
		t.Fatalf("DuesSummary() error = %v", err)
	}
	if summary.TotalCount != 3 || summary.PaidCount != 2 || summary.PendingCount != 1 {
		t.Errorf("DuesSummary() counts = %d/%d/%d", summary.TotalCount, summary.PaidCount, summary.PendingCount)
	}
	if summary.PercentPaid != 66.67 {
		t.Errorf("DuesSummary() percentPaid = %v, want 66.67", summary.PercentPaid)
	}
	if summary.AmountPaid.Cents != 10000 || summary.AmountPending.Cents != 5000 {
		t.Errorf("DuesSummary() amounts = %d paid, %d pending", summary.AmountPaid.Cents, summary.AmountPending.Cents)
	}
}

func TestDuesSummaryGeneratesUnseenPeriod(t *testing.T) {
	reports, _, _ := newTestReports(t, "Ana", "Bruno")

	summary, err := reports.DuesSummary(context.Background(), 3, 2025)
	if err != nil {
		t.Fatalf("DuesSummary() error = %v", err)
	}
	if summary.TotalCount != 2 || summary.PendingCount != 2 {
		t.Errorf("DuesSummary() on fresh period = %d total, %d pending, want 2/2", summary.TotalCount, summary.PendingCount)
	}
	if summary.PercentPaid != 0 {
		t.Errorf("DuesSummary() percentPaid = %v, want 0", summary.PercentPaid)
	}
}

func TestCashFlow(t *testing.T) {
	reports, _, store := newTestReports(t)
	ledger := NewLedger(store, 0, 10)
	ctx := context.Background()

	recordEntry(t, ledger, "income", "donation", "300", "2025-06-05")
	recordEntry(t, ledger, "expense", "material", "120", "2025-06-20")
	recordEntry(t, ledger, "income", "sale", "50", "2025-07-01")

	flow, err := reports.CashFlow(ctx, 6, 2025)
	if err != nil {
		t.Fatalf("CashFlow() error = %v", err)
	}
	if flow.IncomeTotal.Cents != 30000 {
		t.Errorf("CashFlow() income = %d cents, want 30000", flow.IncomeTotal.Cents)
	}
	if flow.ExpenseTotal.Cents != 12000 {
		t.Errorf("CashFlow() expense = %d cents, want 12000", flow.ExpenseTotal.Cents)
	}
	if flow.NetBalance.Cents != 18000 {
		t.Errorf("CashFlow() net = %d cents, want 18000", flow.NetBalance.Cents)
	}
	if len(flow.Transactions) != 2 {
		t.Errorf("CashFlow() carries %d transactions, want 2", len(flow.Transactions))
	}
}

func TestNetWorthSpansAllPeriods(t *testing.T) {
	reports, _, store := newTestReports(t)
	ledger := NewLedger(store, 0, 10)

	recordEntry(t, ledger, "income", "donation", "100", "2024-12-31")
	recordEntry(t, ledger, "income", "sale", "50", "2025-06-05")
	recordEntry(t, ledger, "expense", "material", "30", "2025-06-20")

	worth, err := reports.NetWorth(context.Background())
	if err != nil {
		t.Fatalf("NetWorth() error = %v", err)
	}
	if worth.IncomeTotal.Cents != 15000 || worth.ExpenseTotal.Cents != 3000 {
		t.Errorf("NetWorth() totals = %d income, %d expense", worth.IncomeTotal.Cents, worth.ExpenseTotal.Cents)
	}
	if worth.NetWorth.Cents != 12000 {
		t.Errorf("NetWorth() net = %d cents, want 12000", worth.NetWorth.Cents)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	reports, _, store := newTestReports(t)
	ledger := NewLedger(store, 0, 10)

	recordEntry(t, ledger, "income", "donation", "100", "2025-06-01")
	recordEntry(t, ledger, "income", "donation", "25", "2025-06-02")
	recordEntry(t, ledger, "income", "sale", "40", "2025-06-03")
	recordEntry(t, ledger, "expense", "material", "60", "2025-06-04")

	breakdown, err := reports.CategoryBreakdown(context.Background(), core.Income)
	if err != nil {
		t.Fatalf("CategoryBreakdown() error = %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("CategoryBreakdown() = %d categories, want 2", len(breakdown))
	}
	if breakdown["donation"].Cents != 12500 {
		t.Errorf("donation total = %d cents, want 12500", breakdown["donation"].Cents)
	}
	if breakdown["sale"].Cents != 4000 {
		t.Errorf("sale total = %d cents, want 4000", breakdown["sale"].Cents)
	}

	if _, err := reports.CategoryBreakdown(context.Background(), "transfer"); err != core.ErrInvalidKind {
		t.Errorf("CategoryBreakdown(bad kind) error = %v, want ErrInvalidKind", err)
	}
}

func TestMemberDemographicsExcludesUnderSix(t *testing.T) {
	store := memory.New()
	reg := NewRegistry(store, 10)
	reg.now = fixedNow
	ctx := context.Background()

	// Ages at the fixed clock (2025-06-01): 12, 8, 17 and 4.
	drafts := []struct {
		name, birth, unit, class string
	}{
		{"Ana", "2013-03-10", "Falcão", "Pesquisador"},
		{"Bruno", "2016-09-01", "Falcão", "Amigo"},
		{"Carla", "2008-01-20", "Águia", "Guia"},
		{"Davi", "2021-02-14", "Águia", "Amigo"},
	}
	for _, d := range drafts {
		if _, err := reg.Register(ctx, MemberDraft{Name: d.name, BirthDate: d.birth, Unit: d.unit, Class: d.class}); err != nil {
			t.Fatalf("Register(%s) error = %v", d.name, err)
		}
	}

	dues := NewDues(store, 5000)
	reports := NewReports(store, dues, store)

	demo, err := reports.MemberDemographics(ctx)
	if err != nil {
		t.Fatalf("MemberDemographics() error = %v", err)
	}
	if demo.TotalActive != 4 {
		t.Errorf("TotalActive = %d, want 4", demo.TotalActive)
	}
	if demo.ByUnit["Falcão"] != 2 || demo.ByUnit["Águia"] != 2 {
		t.Errorf("ByUnit = %v", demo.ByUnit)
	}
	if demo.ByClass["Amigo"] != 2 {
		t.Errorf("ByClass = %v", demo.ByClass)
	}

	// The four-year-old counts toward the total but lands in no bracket.
	bracketed := 0
	for _, n := range demo.ByAgeBracket {
		bracketed += n
	}
	if bracketed != 3 {
		t.Errorf("bracketed members = %d, want 3; brackets = %v", bracketed, demo.ByAgeBracket)
	}
	if demo.ByAgeBracket[core.Bracket10to12] != 1 {
		t.Errorf("ByAgeBracket = %v", demo.ByAgeBracket)
	}
}

func TestDashboard(t *testing.T) {
	reports, dues, store := newTestReports(t, "Ana", "Bruno")
	ledger := NewLedger(store, 0, 10)
	ctx := context.Background()

	records, err := dues.ListPeriod(ctx, 6, 2025)
	if err != nil {
		t.Fatalf("ListPeriod() error = %v", err)
	}
	if _, err := dues.Settle(ctx, records[0].ID); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	recordEntry(t, ledger, "expense", "material", "10", "2025-06-15")

	stats, err := reports.Dashboard(ctx, 6, 2025, 10)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if stats.TotalActive != 2 {
		t.Errorf("TotalActive = %d, want 2", stats.TotalActive)
	}
	if stats.DuesPaid != 1 || stats.DuesPending != 1 {
		t.Errorf("dues counts = %d paid, %d pending", stats.DuesPaid, stats.DuesPending)
	}
	if stats.Collected.Cents != 5000 {
		t.Errorf("Collected = %d cents, want 5000", stats.Collected.Cents)
	}
	if len(stats.RecentMembers) != 2 {
		t.Errorf("RecentMembers = %d, want 2", len(stats.RecentMembers))
	}
	if len(stats.RecentLedger) != 2 {
		t.Errorf("RecentLedger = %d entries, want 2 (settlement + expense)", len(stats.RecentLedger))
	}
}
