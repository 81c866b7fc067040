package services

import (
	"context"
	"fmt"

	"clube/internal/core"
)

// Reports derives summaries from the registry and the two ledgers. It only
// ever reads; nothing here mutates a record.
type Reports struct {
	members MemberStore
	dues    *Dues
	txs     TransactionStore
}

func NewReports(members MemberStore, dues *Dues, txs TransactionStore) *Reports {
	return &Reports{members: members, dues: dues, txs: txs}
}

// DuesSummary aggregates one period's dues by status. Reading a period
// generates it first, so a never-viewed period reports the full pending set
// rather than emptiness.
func (s *Reports) DuesSummary(ctx context.Context, month, year int) (core.DuesSummary, error) {
	dues, err := s.dues.ListPeriod(ctx, month, year)
	if err != nil {
		return core.DuesSummary{}, err
	}
	return core.SummarizeDues(month, year, dues), nil
}

// CashFlow returns one period's transaction activity, ascending by
// occurrence time.
func (s *Reports) CashFlow(ctx context.Context, month, year int) (core.CashFlow, error) {
	if err := core.ValidatePeriod(month, year); err != nil {
		return core.CashFlow{}, err
	}

	txs, err := s.txs.ListTransactionsByPeriod(ctx, month, year)
	if err != nil {
		return core.CashFlow{}, fmt.Errorf("cash flow for %d/%d: %w", month, year, err)
	}

	flow := core.CashFlow{Month: month, Year: year, Transactions: txs}
	for _, t := range txs {
		if t.Kind == core.Expense {
			flow.ExpenseTotal = flow.ExpenseTotal.Add(t.Amount)
		} else {
			flow.IncomeTotal = flow.IncomeTotal.Add(t.Amount)
		}
	}
	flow.NetBalance = flow.IncomeTotal.Sub(flow.ExpenseTotal)
	return flow, nil
}

// NetWorth scans the whole ledger for the all-time position.
func (s *Reports) NetWorth(ctx context.Context) (core.NetWorth, error) {
	income, expense, err := s.txs.SumByKind(ctx)
	if err != nil {
		return core.NetWorth{}, fmt.Errorf("net worth: %w", err)
	}
	return core.NetWorth{
		IncomeTotal:  core.Money{Cents: income},
		ExpenseTotal: core.Money{Cents: expense},
		NetWorth:     core.Money{Cents: income - expense},
	}, nil
}

// CategoryBreakdown sums one ledger side per category.
func (s *Reports) CategoryBreakdown(ctx context.Context, kind core.TransactionKind) (map[string]core.Money, error) {
	if !kind.Valid() {
		return nil, core.ErrInvalidKind
	}

	sums, err := s.txs.SumByCategory(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}

	breakdown := make(map[string]core.Money, len(sums))
	for category, cents := range sums {
		breakdown[category] = core.Money{Cents: cents}
	}
	return breakdown, nil
}

// MemberDemographics counts the active membership by unit, class and age
// bracket. Members under 6 appear in the active total but in no bracket.
func (s *Reports) MemberDemographics(ctx context.Context) (core.Demographics, error) {
	members, err := s.members.ListActiveMembers(ctx)
	if err != nil {
		return core.Demographics{}, fmt.Errorf("member demographics: %w", err)
	}

	demo := core.Demographics{
		ByUnit:       make(map[string]int),
		ByClass:      make(map[string]int),
		ByAgeBracket: make(map[string]int),
	}
	for _, m := range members {
		demo.TotalActive++
		demo.ByUnit[m.Unit]++
		demo.ByClass[m.Class]++
		if bracket, ok := core.AgeBracket(m.Age); ok {
			demo.ByAgeBracket[bracket]++
		}
	}
	return demo, nil
}

// Dashboard assembles the landing page statistics for the current period.
func (s *Reports) Dashboard(ctx context.Context, month, year, recentLimit int) (core.DashboardStats, error) {
	dues, err := s.dues.ListPeriod(ctx, month, year)
	if err != nil {
		return core.DashboardStats{}, err
	}

	stats := core.DashboardStats{}
	for _, d := range dues {
		switch d.Status {
		case core.DuePaid:
			stats.DuesPaid++
			stats.Collected = stats.Collected.Add(d.Amount)
		case core.DueOverdue:
			stats.DuesOverdue++
		default:
			stats.DuesPending++
		}
	}

	members, err := s.members.ListActiveMembers(ctx)
	if err != nil {
		return core.DashboardStats{}, fmt.Errorf("dashboard members: %w", err)
	}
	stats.TotalActive = len(members)

	if stats.RecentMembers, err = s.members.RecentMembers(ctx, 5); err != nil {
		return core.DashboardStats{}, fmt.Errorf("dashboard recent members: %w", err)
	}
	if stats.RecentLedger, err = s.txs.ListRecentTransactions(ctx, recentLimit); err != nil {
		return core.DashboardStats{}, fmt.Errorf("dashboard recent transactions: %w", err)
	}
	return stats, nil
}
