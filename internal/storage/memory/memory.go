// Package memory is an in-memory store with the same behavior as the SQLite
// repository. It backs the memory data backend and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clube/internal/core"
)

type Store struct {
	mu           sync.Mutex
	members      []core.Member
	dues         []core.DueRecord
	transactions []core.Transaction
	events       []core.Event
	nextMember   int64
	nextDue      int64
	nextTx       int64
	nextEvent    int64
}

func New() *Store {
	return &Store{nextMember: 1, nextDue: 1, nextTx: 1, nextEvent: 1}
}

// --- members ---

func (s *Store) CreateMember(_ context.Context, m core.Member) (core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextMember
	s.nextMember++
	m.RegisteredAt = time.Now().UTC()
	m.Active = true
	s.members = append(s.members, m)
	return m, nil
}

func (s *Store) UpdateMember(_ context.Context, m core.Member) (core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.members {
		if s.members[i].ID == m.ID {
			m.RegisteredAt = s.members[i].RegisteredAt
			m.Active = s.members[i].Active
			s.members[i] = m
			return m, nil
		}
	}
	return core.Member{}, core.ErrNotFound
}

func (s *Store) DeactivateMember(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.members {
		if s.members[i].ID == id {
			s.members[i].Active = false
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) GetMember(_ context.Context, id int64) (core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.members {
		if m.ID == id {
			return m, nil
		}
	}
	return core.Member{}, core.ErrNotFound
}

func (s *Store) ListMembers(_ context.Context, search string, limit, offset int) ([]core.Member, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.activeByName()
	if search != "" {
		var filtered []core.Member
		for _, m := range matched {
			if strings.Contains(m.Name, search) {
				filtered = append(filtered, m)
			}
		}
		matched = filtered
	}

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *Store) ListActiveMembers(_ context.Context) ([]core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeByName(), nil
}

func (s *Store) RecentMembers(_ context.Context, limit int) ([]core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []core.Member
	for _, m := range s.members {
		if m.Active {
			active = append(active, m)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].RegisteredAt.Equal(active[j].RegisteredAt) {
			return active[i].ID > active[j].ID
		}
		return active[i].RegisteredAt.After(active[j].RegisteredAt)
	})
	if len(active) > limit {
		active = active[:limit]
	}
	return active, nil
}

// activeByName is called with the lock held.
func (s *Store) activeByName() []core.Member {
	var active []core.Member
	for _, m := range s.members {
		if m.Active {
			active = append(active, m)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Name < active[j].Name
	})
	return active
}

// --- dues ---

func (s *Store) CountDuesForPeriod(_ context.Context, month, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, d := range s.dues {
		if d.Month == month && d.Year == year {
			count++
		}
	}
	return count, nil
}

func (s *Store) GenerateDues(_ context.Context, month, year int, amountCents int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[int64]bool)
	for _, d := range s.dues {
		if d.Month == month && d.Year == year {
			existing[d.MemberID] = true
		}
	}

	created := 0
	for _, m := range s.members {
		if !m.Active || existing[m.ID] {
			continue
		}
		s.dues = append(s.dues, core.DueRecord{
			ID:         s.nextDue,
			MemberID:   m.ID,
			MemberName: m.Name,
			Month:      month,
			Year:       year,
			Amount:     core.Money{Cents: amountCents},
			Status:     core.DuePending,
			CreatedAt:  time.Now().UTC(),
		})
		s.nextDue++
		created++
	}
	return created, nil
}

func (s *Store) ListDuesForPeriod(_ context.Context, month, year int) ([]core.DueRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dues []core.DueRecord
	for _, d := range s.dues {
		if d.Month == month && d.Year == year {
			dues = append(dues, d)
		}
	}
	sort.SliceStable(dues, func(i, j int) bool {
		return dues[i].MemberName < dues[j].MemberName
	})
	return dues, nil
}

func (s *Store) ListDuesForMember(_ context.Context, memberID int64) ([]core.DueRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dues []core.DueRecord
	for _, d := range s.dues {
		if d.MemberID == memberID {
			dues = append(dues, d)
		}
	}
	sort.SliceStable(dues, func(i, j int) bool {
		if dues[i].Year != dues[j].Year {
			return dues[i].Year > dues[j].Year
		}
		return dues[i].Month > dues[j].Month
	})
	return dues, nil
}

func (s *Store) GetDue(_ context.Context, id int64) (core.DueRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.dues {
		if d.ID == id {
			return d, nil
		}
	}
	return core.DueRecord{}, core.ErrNotFound
}

func (s *Store) SettleDue(_ context.Context, id int64, paidAt time.Time) (core.DueRecord, core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.dues {
		if s.dues[i].ID != id {
			continue
		}
		if s.dues[i].Status == core.DuePaid {
			return core.DueRecord{}, core.Transaction{}, core.ErrAlreadyPaid
		}

		paidAt = paidAt.UTC()
		s.dues[i].Status = core.DuePaid
		s.dues[i].PaidAt = &paidAt

		entry := core.Transaction{
			ID:          s.nextTx,
			Kind:        core.Income,
			Category:    core.CategoryDues,
			Description: core.SettlementDescription(s.dues[i].MemberName, s.dues[i].Month, s.dues[i].Year),
			Amount:      s.dues[i].Amount,
			OccurredAt:  paidAt,
			CreatedAt:   paidAt,
		}
		s.nextTx++
		s.transactions = append(s.transactions, entry)
		return s.dues[i], entry, nil
	}
	return core.DueRecord{}, core.Transaction{}, core.ErrNotFound
}

// --- transactions ---

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextTx
	s.nextTx++
	t.CreatedAt = time.Now().UTC()
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) ListTransactionsByPeriod(_ context.Context, month, year int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := core.PeriodRange(month, year)
	var txs []core.Transaction
	for _, t := range s.transactions {
		if !t.OccurredAt.Before(start) && t.OccurredAt.Before(end) {
			txs = append(txs, t)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].OccurredAt.Equal(txs[j].OccurredAt) {
			return txs[i].ID < txs[j].ID
		}
		return txs[i].OccurredAt.Before(txs[j].OccurredAt)
	})
	return txs, nil
}

func (s *Store) ListRecentTransactions(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := append([]core.Transaction(nil), s.transactions...)
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].OccurredAt.Equal(txs[j].OccurredAt) {
			return txs[i].ID > txs[j].ID
		}
		return txs[i].OccurredAt.After(txs[j].OccurredAt)
	})
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (s *Store) SumByKind(_ context.Context) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var income, expense int64
	for _, t := range s.transactions {
		if t.Kind == core.Expense {
			expense += t.Amount.Cents
		} else {
			income += t.Amount.Cents
		}
	}
	return income, expense, nil
}

func (s *Store) SumByCategory(_ context.Context, kind core.TransactionKind) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[string]int64)
	for _, t := range s.transactions {
		if t.Kind == kind {
			sums[t.Category] += t.Amount.Cents
		}
	}
	return sums, nil
}

// --- events ---

func (s *Store) CreateEvent(_ context.Context, e core.Event) (core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextEvent
	s.nextEvent++
	e.Active = true
	e.CreatedAt = time.Now().UTC()
	s.events = append(s.events, e)
	return e, nil
}

func (s *Store) ListEventsForMonth(_ context.Context, month, year int) ([]core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := core.PeriodRange(month, year)
	var events []core.Event
	for _, e := range s.events {
		if e.Active && !e.StartsAt.Before(start) && e.StartsAt.Before(end) {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	return events, nil
}

func (s *Store) UpcomingEvents(_ context.Context, from time.Time, limit int) ([]core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []core.Event
	for _, e := range s.events {
		if e.Active && !e.StartsAt.Before(from) {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (s *Store) Close() error { return nil }
