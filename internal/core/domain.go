package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DuePending DueStatus = "pending"
	DuePaid    DueStatus = "paid"
	// DueOverdue exists in the data model but no operation transitions a due
	// to it; it only ever arrives via direct data manipulation.
	DueOverdue DueStatus = "overdue"

	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"

	// CategoryDues is the category stamped on transactions created by a
	// due settlement.
	CategoryDues = "dues"
)

type (
	DueStatus       string
	TransactionKind string

	// Member is a registered desbravador. Age is a snapshot: it is
	// recomputed from BirthDate on create and update only, never lazily.
	Member struct {
		ID            int64
		Name          string
		Age           int
		BirthDate     time.Time
		Unit          string
		Class         string
		Specialties   []string
		Phone         string
		Email         string
		Address       string
		GuardianName  string
		GuardianPhone string
		RegisteredAt  time.Time
		Active        bool
	}

	// DueRecord is one member's obligation for one (month, year) period.
	DueRecord struct {
		ID         int64
		MemberID   int64
		MemberName string
		Month      int
		Year       int
		Amount     Money
		PaidAt     *time.Time
		Status     DueStatus
		Notes      string
		CreatedAt  time.Time
	}

	// Transaction is an append-only ledger entry. Once written, kind,
	// category and amount are the source of truth for every aggregate.
	Transaction struct {
		ID          int64
		Kind        TransactionKind
		Category    string
		Description string
		Amount      Money
		OccurredAt  time.Time
		Notes       string
		CreatedAt   time.Time
	}

	// Event is a club activity shown on calendars.
	Event struct {
		ID          int64
		Name        string
		Description string
		StartsAt    time.Time
		EndsAt      *time.Time
		Location    string
		Type        string
		Cost        Money
		Active      bool
		CreatedAt   time.Time
	}
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyPaid      = errors.New("due already paid")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidYear      = errors.New("invalid year")
	ErrInvalidBirthDate = errors.New("invalid birth date")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyUnit        = errors.New("empty unit")
	ErrEmptyClass       = errors.New("empty class")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidKind      = errors.New("invalid transaction kind")
)

func (s DueStatus) Valid() bool {
	switch s {
	case DuePending, DuePaid, DueOverdue:
		return true
	}
	return false
}

func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

// ValidatePeriod checks a (month, year) pair used for due generation and
// period reporting.
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	if year < 1 {
		return ErrInvalidYear
	}
	return nil
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if m.BirthDate.IsZero() {
		return ErrInvalidBirthDate
	}
	if strings.TrimSpace(m.Unit) == "" {
		return ErrEmptyUnit
	}
	if strings.TrimSpace(m.Class) == "" {
		return ErrEmptyClass
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	// Amounts stay permissive on purpose: negative and zero entries are
	// accepted, operators use them for corrections.
	return nil
}

// Signed returns the amount with the sign implied by the kind: income
// positive, expense negative. Used by running-balance folds.
func (t Transaction) Signed() int64 {
	if t.Kind == Expense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

// SettlementDescription is the canonical description for the income
// transaction created when a due is settled.
func SettlementDescription(memberName string, month, year int) string {
	return fmt.Sprintf("Monthly due - %s - %d/%d", memberName, month, year)
}

// PeriodRange returns the half-open [first, firstOfNext) UTC range for a
// (month, year) period. December rolls over to January of the next year.
func PeriodRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
