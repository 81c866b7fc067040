// Package services holds the club's business operations: the member
// registry, the dues ledger, the transaction ledger, reporting and the
// event calendar. Services speak to storage through the ports below; both
// the SQLite repository and the in-memory store satisfy them.
package services

import (
	"context"
	"time"

	"clube/internal/core"
)

type (
	// MemberStore is the registry's persistence port.
	MemberStore interface {
		CreateMember(ctx context.Context, m core.Member) (core.Member, error)
		UpdateMember(ctx context.Context, m core.Member) (core.Member, error)
		DeactivateMember(ctx context.Context, id int64) error
		GetMember(ctx context.Context, id int64) (core.Member, error)
		ListMembers(ctx context.Context, search string, limit, offset int) ([]core.Member, int, error)
		ListActiveMembers(ctx context.Context) ([]core.Member, error)
		RecentMembers(ctx context.Context, limit int) ([]core.Member, error)
	}

	// DueStore is the dues ledger's persistence port. SettleDue must update
	// the due and append the settlement transaction atomically.
	DueStore interface {
		CountDuesForPeriod(ctx context.Context, month, year int) (int, error)
		GenerateDues(ctx context.Context, month, year int, amountCents int64) (int, error)
		ListDuesForPeriod(ctx context.Context, month, year int) ([]core.DueRecord, error)
		ListDuesForMember(ctx context.Context, memberID int64) ([]core.DueRecord, error)
		GetDue(ctx context.Context, id int64) (core.DueRecord, error)
		SettleDue(ctx context.Context, id int64, paidAt time.Time) (core.DueRecord, core.Transaction, error)
	}

	// TransactionStore is the transaction ledger's persistence port.
	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		ListTransactionsByPeriod(ctx context.Context, month, year int) ([]core.Transaction, error)
		ListRecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
		SumByKind(ctx context.Context) (income, expense int64, err error)
		SumByCategory(ctx context.Context, kind core.TransactionKind) (map[string]int64, error)
	}

	// EventStore is the event calendar's persistence port.
	EventStore interface {
		CreateEvent(ctx context.Context, e core.Event) (core.Event, error)
		ListEventsForMonth(ctx context.Context, month, year int) ([]core.Event, error)
		UpcomingEvents(ctx context.Context, from time.Time, limit int) ([]core.Event, error)
	}

	// Store is the full persistence surface a backend must provide.
	Store interface {
		MemberStore
		DueStore
		TransactionStore
		EventStore
		Close() error
	}
)
