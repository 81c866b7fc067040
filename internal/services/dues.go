package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clube/internal/core"
)

// DuesTotals sums one period's dues by status.
type DuesTotals struct {
	Paid    core.Money
	Pending core.Money
	Total   core.Money
}

// Dues runs the monthly-due lifecycle: lazy per-period generation, listing,
// settlement and totals.
type Dues struct {
	store           DueStore
	defaultDueCents int64
	now             func() time.Time
}

func NewDues(store DueStore, defaultDueCents int64) *Dues {
	return &Dues{store: store, defaultDueCents: defaultDueCents, now: time.Now}
}

// EnsurePeriodGenerated creates one pending due per active member for the
// period, at the default amount, and only when the period has no records at
// all. A member activated after a period was generated never gets a due for
// it: generation fires solely on a completely empty period.
func (s *Dues) EnsurePeriodGenerated(ctx context.Context, month, year int) (int, error) {
	if err := core.ValidatePeriod(month, year); err != nil {
		return 0, err
	}

	existing, err := s.store.CountDuesForPeriod(ctx, month, year)
	if err != nil {
		return 0, fmt.Errorf("count dues for %d/%d: %w", month, year, err)
	}
	if existing > 0 {
		return 0, nil
	}

	created, err := s.store.GenerateDues(ctx, month, year, s.defaultDueCents)
	if err != nil {
		return 0, fmt.Errorf("generate dues for %d/%d: %w", month, year, err)
	}
	return created, nil
}

// ListPeriod generates the period if needed, then returns its dues joined
// with member names, ordered by member name.
func (s *Dues) ListPeriod(ctx context.Context, month, year int) ([]core.DueRecord, error) {
	if _, err := s.EnsurePeriodGenerated(ctx, month, year); err != nil {
		return nil, err
	}

	dues, err := s.store.ListDuesForPeriod(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("list dues for %d/%d: %w", month, year, err)
	}
	return dues, nil
}

// ListForMember returns all of one member's dues, newest period first.
func (s *Dues) ListForMember(ctx context.Context, memberID int64) ([]core.DueRecord, error) {
	dues, err := s.store.ListDuesForMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list dues for member %d: %w", memberID, err)
	}
	return dues, nil
}

// Settle marks the due paid and appends exactly one income transaction in
// the same storage transaction. A second settlement of the same due fails
// with core.ErrAlreadyPaid instead of duplicating the ledger entry.
func (s *Dues) Settle(ctx context.Context, id int64) (core.DueRecord, error) {
	due, entry, err := s.store.SettleDue(ctx, id, s.now())
	if err != nil {
		return core.DueRecord{}, fmt.Errorf("settle due %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Due settlement recorded",
		"due_id", due.ID, "member_name", due.MemberName,
		"transaction_id", entry.ID, "amount_cents", entry.Amount.Cents)

	return due, nil
}

// Totals sums the period's dues by status over the same record set
// ListPeriod returns.
func (s *Dues) Totals(ctx context.Context, month, year int) (DuesTotals, error) {
	dues, err := s.ListPeriod(ctx, month, year)
	if err != nil {
		return DuesTotals{}, err
	}

	var totals DuesTotals
	for _, d := range dues {
		totals.Total = totals.Total.Add(d.Amount)
		switch d.Status {
		case core.DuePaid:
			totals.Paid = totals.Paid.Add(d.Amount)
		case core.DuePending:
			totals.Pending = totals.Pending.Add(d.Amount)
		}
	}
	return totals, nil
}
