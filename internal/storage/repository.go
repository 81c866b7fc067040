// Package storage persists the club's records in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"clube/internal/core"

	_ "modernc.org/sqlite"
)

const (
	timeLayout = time.RFC3339
	dateLayout = "2006-01-02"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- members ---

const memberColumns = `id, name, birth_date, age, unit, class, specialties,
	phone, email, address, guardian_name, guardian_phone, registered_at, active`

func (r *SQLiteRepository) CreateMember(ctx context.Context, m core.Member) (core.Member, error) {
	specialties, err := json.Marshal(m.Specialties)
	if err != nil {
		return core.Member{}, fmt.Errorf("marshal specialties: %w", err)
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO members (name, birth_date, age, unit, class, specialties,
			phone, email, address, guardian_name, guardian_phone, registered_at, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		m.Name, m.BirthDate.Format(dateLayout), m.Age, m.Unit, m.Class, string(specialties),
		m.Phone, m.Email, m.Address, m.GuardianName, m.GuardianPhone, now.Format(timeLayout))
	if err != nil {
		return core.Member{}, fmt.Errorf("insert member: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Member{}, fmt.Errorf("member id: %w", err)
	}

	m.ID = id
	m.RegisteredAt = now
	m.Active = true

	slog.InfoContext(ctx, "Member saved",
		"id", m.ID, "name", m.Name, "unit", m.Unit, "age", m.Age)

	return m, nil
}

func (r *SQLiteRepository) UpdateMember(ctx context.Context, m core.Member) (core.Member, error) {
	specialties, err := json.Marshal(m.Specialties)
	if err != nil {
		return core.Member{}, fmt.Errorf("marshal specialties: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE members
		SET name = ?, birth_date = ?, age = ?, unit = ?, class = ?, specialties = ?,
			phone = ?, email = ?, address = ?, guardian_name = ?, guardian_phone = ?
		WHERE id = ?`,
		m.Name, m.BirthDate.Format(dateLayout), m.Age, m.Unit, m.Class, string(specialties),
		m.Phone, m.Email, m.Address, m.GuardianName, m.GuardianPhone, m.ID)
	if err != nil {
		return core.Member{}, fmt.Errorf("update member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.Member{}, core.ErrNotFound
	}

	return r.GetMember(ctx, m.ID)
}

// DeactivateMember flips the active flag off. Deactivating an already
// inactive member is a no-op.
func (r *SQLiteRepository) DeactivateMember(ctx context.Context, id int64) error {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM members WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check member: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE members SET active = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deactivate member: %w", err)
	}

	slog.InfoContext(ctx, "Member deactivated", "id", id)
	return nil
}

func (r *SQLiteRepository) GetMember(ctx context.Context, id int64) (core.Member, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Member{}, core.ErrNotFound
	}
	if err != nil {
		return core.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// ListMembers returns active members ordered by name, filtered by a
// case-sensitive name substring when search is non-empty. SQLite's LIKE is
// case-insensitive for ASCII, so the filter uses instr instead.
func (r *SQLiteRepository) ListMembers(ctx context.Context, search string, limit, offset int) ([]core.Member, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM members
		WHERE active = 1 AND (? = '' OR instr(name, ?) > 0)`,
		search, search).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE active = 1 AND (? = '' OR instr(name, ?) > 0)
		ORDER BY name
		LIMIT ? OFFSET ?`,
		search, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members, err := collectMembers(rows)
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *SQLiteRepository) ListActiveMembers(ctx context.Context) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (r *SQLiteRepository) RecentMembers(ctx context.Context, limit int) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE active = 1
		ORDER BY registered_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent members: %w", err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (core.Member, error) {
	var (
		m           core.Member
		birth       string
		registered  string
		specialties string
	)
	err := row.Scan(&m.ID, &m.Name, &birth, &m.Age, &m.Unit, &m.Class, &specialties,
		&m.Phone, &m.Email, &m.Address, &m.GuardianName, &m.GuardianPhone,
		&registered, &m.Active)
	if err != nil {
		return core.Member{}, err
	}

	if m.BirthDate, err = time.Parse(dateLayout, birth); err != nil {
		return core.Member{}, fmt.Errorf("parse birth date %q: %w", birth, err)
	}
	if m.RegisteredAt, err = parseStoredTime(registered); err != nil {
		return core.Member{}, fmt.Errorf("parse registered_at %q: %w", registered, err)
	}
	if err := json.Unmarshal([]byte(specialties), &m.Specialties); err != nil {
		return core.Member{}, fmt.Errorf("unmarshal specialties: %w", err)
	}
	return m, nil
}

func collectMembers(rows *sql.Rows) ([]core.Member, error) {
	var members []core.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// --- dues ---

func (r *SQLiteRepository) CountDuesForPeriod(ctx context.Context, month, year int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dues WHERE month = ? AND year = ?`, month, year).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count dues: %w", err)
	}
	return count, nil
}

// GenerateDues inserts one pending due per active member for the period.
// The UNIQUE(member_id, month, year) constraint plus ON CONFLICT DO NOTHING
// makes concurrent generation of the same period safe.
func (r *SQLiteRepository) GenerateDues(ctx context.Context, month, year int, amountCents int64) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin generate dues: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO dues (member_id, month, year, amount_cents, status, created_at)
		SELECT id, ?, ?, ?, 'pending', ?
		FROM members WHERE active = 1
		ON CONFLICT (member_id, month, year) DO NOTHING`,
		month, year, amountCents, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("generate dues: %w", err)
	}

	created, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("generated rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit generate dues: %w", err)
	}

	if created > 0 {
		slog.InfoContext(ctx, "Dues generated for period",
			"month", month, "year", year, "created", created, "amount_cents", amountCents)
	}
	return int(created), nil
}

const dueColumns = `d.id, d.member_id, m.name, d.month, d.year, d.amount_cents,
	d.paid_at, d.status, d.notes, d.created_at`

func (r *SQLiteRepository) ListDuesForPeriod(ctx context.Context, month, year int) ([]core.DueRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+dueColumns+`
		FROM dues d JOIN members m ON m.id = d.member_id
		WHERE d.month = ? AND d.year = ?
		ORDER BY m.name`, month, year)
	if err != nil {
		return nil, fmt.Errorf("list dues: %w", err)
	}
	defer rows.Close()
	return collectDues(rows)
}

func (r *SQLiteRepository) ListDuesForMember(ctx context.Context, memberID int64) ([]core.DueRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+dueColumns+`
		FROM dues d JOIN members m ON m.id = d.member_id
		WHERE d.member_id = ?
		ORDER BY d.year DESC, d.month DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list member dues: %w", err)
	}
	defer rows.Close()
	return collectDues(rows)
}

func (r *SQLiteRepository) GetDue(ctx context.Context, id int64) (core.DueRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+dueColumns+`
		FROM dues d JOIN members m ON m.id = d.member_id
		WHERE d.id = ?`, id)
	d, err := scanDue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DueRecord{}, core.ErrNotFound
	}
	if err != nil {
		return core.DueRecord{}, fmt.Errorf("get due: %w", err)
	}
	return d, nil
}

// SettleDue marks the due paid and appends the matching income transaction
// in one database transaction. Settling a paid due fails with ErrAlreadyPaid
// so the ledger never receives a duplicate settlement entry.
func (r *SQLiteRepository) SettleDue(ctx context.Context, id int64, paidAt time.Time) (core.DueRecord, core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.DueRecord{}, core.Transaction{}, fmt.Errorf("begin settle: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+dueColumns+`
		FROM dues d JOIN members m ON m.id = d.member_id
		WHERE d.id = ?`, id)
	due, err := scanDue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DueRecord{}, core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.DueRecord{}, core.Transaction{}, fmt.Errorf("load due: %w", err)
	}
	if due.Status == core.DuePaid {
		return core.DueRecord{}, core.Transaction{}, core.ErrAlreadyPaid
	}

	paidAt = paidAt.UTC()
	if _, err := tx.ExecContext(ctx, `
		UPDATE dues SET status = ?, paid_at = ? WHERE id = ?`,
		core.DuePaid, paidAt.Format(timeLayout), id); err != nil {
		return core.DueRecord{}, core.Transaction{}, fmt.Errorf("mark due paid: %w", err)
	}

	entry := core.Transaction{
		Kind:        core.Income,
		Category:    core.CategoryDues,
		Description: core.SettlementDescription(due.MemberName, due.Month, due.Year),
		Amount:      due.Amount,
		OccurredAt:  paidAt,
		CreatedAt:   paidAt,
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (kind, category, description, amount_cents, occurred_at, notes, created_at)
		VALUES (?, ?, ?, ?, ?, '', ?)`,
		entry.Kind, entry.Category, entry.Description, entry.Amount.Cents,
		paidAt.Format(timeLayout), paidAt.Format(timeLayout))
	if err != nil {
		return core.DueRecord{}, core.Transaction{}, fmt.Errorf("insert settlement transaction: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return core.DueRecord{}, core.Transaction{}, fmt.Errorf("settlement transaction id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.DueRecord{}, core.Transaction{}, fmt.Errorf("commit settle: %w", err)
	}

	due.Status = core.DuePaid
	due.PaidAt = &paidAt

	slog.InfoContext(ctx, "Due settled",
		"due_id", due.ID, "member_id", due.MemberID,
		"month", due.Month, "year", due.Year, "amount_cents", due.Amount.Cents)

	return due, entry, nil
}

func scanDue(row rowScanner) (core.DueRecord, error) {
	var (
		d       core.DueRecord
		paidAt  sql.NullString
		created string
	)
	err := row.Scan(&d.ID, &d.MemberID, &d.MemberName, &d.Month, &d.Year,
		&d.Amount.Cents, &paidAt, &d.Status, &d.Notes, &created)
	if err != nil {
		return core.DueRecord{}, err
	}
	if paidAt.Valid {
		t, err := parseStoredTime(paidAt.String)
		if err != nil {
			return core.DueRecord{}, fmt.Errorf("parse paid_at %q: %w", paidAt.String, err)
		}
		d.PaidAt = &t
	}
	if d.CreatedAt, err = parseStoredTime(created); err != nil {
		return core.DueRecord{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return d, nil
}

func collectDues(rows *sql.Rows) ([]core.DueRecord, error) {
	var dues []core.DueRecord
	for rows.Next() {
		d, err := scanDue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due: %w", err)
		}
		dues = append(dues, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dues: %w", err)
	}
	return dues, nil
}

// --- transactions ---

const transactionColumns = `id, kind, category, description, amount_cents, occurred_at, notes, created_at`

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (kind, category, description, amount_cents, occurred_at, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Kind, t.Category, t.Description, t.Amount.Cents,
		t.OccurredAt.UTC().Format(timeLayout), t.Notes, now.Format(timeLayout))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	t.ID = id
	t.CreatedAt = now

	slog.InfoContext(ctx, "Transaction recorded",
		"id", t.ID, "kind", t.Kind, "category", t.Category, "amount_cents", t.Amount.Cents)

	return t, nil
}

func (r *SQLiteRepository) ListTransactionsByPeriod(ctx context.Context, month, year int) ([]core.Transaction, error) {
	start, end := core.PeriodRange(month, year)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at, id`,
		start.Format(timeLayout), end.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("list transactions by period: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *SQLiteRepository) ListRecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// SumByKind returns all-time income and expense totals in cents.
func (r *SQLiteRepository) SumByKind(ctx context.Context) (int64, int64, error) {
	var income, expense int64
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount_cents END), 0),
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount_cents END), 0)
		FROM transactions`).Scan(&income, &expense)
	if err != nil {
		return 0, 0, fmt.Errorf("sum by kind: %w", err)
	}
	return income, expense, nil
}

// SumByCategory returns summed cents per category for one ledger side.
func (r *SQLiteRepository) SumByCategory(ctx context.Context, kind core.TransactionKind) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE kind = ?
		GROUP BY category`, kind)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]int64)
	for rows.Next() {
		var category string
		var cents int64
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums[category] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return sums, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var txs []core.Transaction
	for rows.Next() {
		var (
			t        core.Transaction
			occurred string
			created  string
		)
		err := rows.Scan(&t.ID, &t.Kind, &t.Category, &t.Description,
			&t.Amount.Cents, &occurred, &t.Notes, &created)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.OccurredAt, err = parseStoredTime(occurred); err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", occurred, err)
		}
		if t.CreatedAt, err = parseStoredTime(created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// --- events ---

const eventColumns = `id, name, description, starts_at, ends_at, location, type, cost_cents, active, created_at`

func (r *SQLiteRepository) CreateEvent(ctx context.Context, e core.Event) (core.Event, error) {
	now := time.Now().UTC()
	var endsAt any
	if e.EndsAt != nil {
		endsAt = e.EndsAt.UTC().Format(timeLayout)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO events (name, description, starts_at, ends_at, location, type, cost_cents, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		e.Name, e.Description, e.StartsAt.UTC().Format(timeLayout), endsAt,
		e.Location, e.Type, e.Cost.Cents, now.Format(timeLayout))
	if err != nil {
		return core.Event{}, fmt.Errorf("insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Event{}, fmt.Errorf("event id: %w", err)
	}
	e.ID = id
	e.Active = true
	e.CreatedAt = now

	slog.InfoContext(ctx, "Event saved", "id", e.ID, "name", e.Name, "starts_at", e.StartsAt)

	return e, nil
}

func (r *SQLiteRepository) ListEventsForMonth(ctx context.Context, month, year int) ([]core.Event, error) {
	start, end := core.PeriodRange(month, year)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE active = 1 AND starts_at >= ? AND starts_at < ?
		ORDER BY starts_at`,
		start.Format(timeLayout), end.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("list events for month: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *SQLiteRepository) UpcomingEvents(ctx context.Context, from time.Time, limit int) ([]core.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE active = 1 AND starts_at >= ?
		ORDER BY starts_at
		LIMIT ?`, from.UTC().Format(timeLayout), limit)
	if err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]core.Event, error) {
	var events []core.Event
	for rows.Next() {
		var (
			e       core.Event
			starts  string
			ends    sql.NullString
			created string
		)
		err := rows.Scan(&e.ID, &e.Name, &e.Description, &starts, &ends,
			&e.Location, &e.Type, &e.Cost.Cents, &e.Active, &created)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.StartsAt, err = parseStoredTime(starts); err != nil {
			return nil, fmt.Errorf("parse starts_at %q: %w", starts, err)
		}
		if ends.Valid {
			t, err := parseStoredTime(ends.String)
			if err != nil {
				return nil, fmt.Errorf("parse ends_at %q: %w", ends.String, err)
			}
			e.EndsAt = &t
		}
		if e.CreatedAt, err = parseStoredTime(created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// parseStoredTime accepts both the RFC3339 values this code writes and the
// 'datetime(now)' default SQLite fills in for rows created by raw SQL.
func parseStoredTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
