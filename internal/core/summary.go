package core

import "math"

// DuesSummary aggregates one period's dues by status.
type DuesSummary struct {
	Month         int
	Year          int
	TotalCount    int
	PaidCount     int
	PendingCount  int
	OverdueCount  int
	AmountTotal   Money
	AmountPaid    Money
	AmountPending Money
	PercentPaid   float64 // 0 when the period has no dues
}

// CashFlow is one period's transaction activity.
type CashFlow struct {
	Month        int
	Year         int
	IncomeTotal  Money
	ExpenseTotal Money
	NetBalance   Money
	Transactions []Transaction // ascending by occurrence time
}

// NetWorth is the all-time income/expense position.
type NetWorth struct {
	IncomeTotal  Money
	ExpenseTotal Money
	NetWorth     Money
}

// Demographics summarises the active membership.
type Demographics struct {
	TotalActive  int
	ByUnit       map[string]int
	ByClass      map[string]int
	ByAgeBracket map[string]int
}

// DashboardStats backs the landing dashboard: current-period dues state plus
// recent activity.
type DashboardStats struct {
	TotalActive   int
	DuesPaid      int
	DuesPending   int
	DuesOverdue   int
	Collected     Money
	RecentMembers []Member
	RecentLedger  []Transaction
}

// SummarizeDues folds one period's due records into a DuesSummary.
// PercentPaid is paid/total*100 rounded to two decimals.
func SummarizeDues(month, year int, dues []DueRecord) DuesSummary {
	s := DuesSummary{Month: month, Year: year}
	for _, d := range dues {
		s.TotalCount++
		s.AmountTotal = s.AmountTotal.Add(d.Amount)
		switch d.Status {
		case DuePaid:
			s.PaidCount++
			s.AmountPaid = s.AmountPaid.Add(d.Amount)
		case DueOverdue:
			s.OverdueCount++
		default:
			s.PendingCount++
			s.AmountPending = s.AmountPending.Add(d.Amount)
		}
	}
	if s.TotalCount > 0 {
		pct := float64(s.PaidCount) / float64(s.TotalCount) * 100
		s.PercentPaid = math.Round(pct*100) / 100
	}
	return s
}

// RunningBalance folds transactions left to right on top of the opening
// balance: income adds, expense subtracts.
func RunningBalance(txs []Transaction, opening Money) Money {
	balance := opening.Cents
	for _, t := range txs {
		balance += t.Signed()
	}
	return Money{Cents: balance}
}
