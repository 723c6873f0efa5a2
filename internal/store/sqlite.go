// Package store persists leave requests, suggestions and the employee
// directory in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when the record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrAlreadyDecided is returned when a decision races a prior one.
	// The first decision wins; later ones observe this error.
	ErrAlreadyDecided = errors.New("store: request already decided")
)

const dateLayout = "2006-01-02"

// Store wraps the SQLite handle. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS full_day_leaves (
	id               TEXT PRIMARY KEY,
	employee_name    TEXT NOT NULL,
	employee_id      TEXT NOT NULL,
	reason           TEXT NOT NULL,
	date_descriptor  TEXT NOT NULL,
	start_date       TEXT NOT NULL,
	end_date         TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'pending',
	rejection_reason TEXT NOT NULL DEFAULT '',
	decided_by       TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_full_day_status   ON full_day_leaves(status);
CREATE INDEX IF NOT EXISTS idx_full_day_employee ON full_day_leaves(employee_id);

CREATE TABLE IF NOT EXISTS hourly_leaves (
	id               TEXT PRIMARY KEY,
	employee_name    TEXT NOT NULL,
	employee_id      TEXT NOT NULL,
	reason           TEXT NOT NULL,
	date             TEXT NOT NULL,
	time_descriptor  TEXT NOT NULL,
	subtype          TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'pending',
	rejection_reason TEXT NOT NULL DEFAULT '',
	decided_by       TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hourly_status   ON hourly_leaves(status);
CREATE INDEX IF NOT EXISTS idx_hourly_employee ON hourly_leaves(employee_id);

CREATE TABLE IF NOT EXISTS suggestions (
	id           TEXT PRIMARY KEY,
	message      TEXT NOT NULL,
	sender       TEXT NOT NULL,
	submitted_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// =============================================================================
// Full-day leaves
// =============================================================================

// CreateFullDay inserts a full-day leave request.
func (s *Store) CreateFullDay(ctx context.Context, l *FullDayLeave) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO full_day_leaves
			(id, employee_name, employee_id, reason, date_descriptor,
			 start_date, end_date, status, rejection_reason, decided_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.EmployeeName, l.EmployeeID, l.Reason, l.DateDescriptor,
		formatDate(l.StartDate), formatDate(l.EndDate),
		string(l.Status), l.RejectionReason, l.DecidedBy,
		l.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create full-day leave: %w", err)
	}
	return nil
}

// GetFullDay returns the full-day leave with the given id.
func (s *Store) GetFullDay(ctx context.Context, id string) (FullDayLeave, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_name, employee_id, reason, date_descriptor,
		       start_date, end_date, status, rejection_reason, decided_by, created_at
		FROM full_day_leaves WHERE id = ?`, id)
	return scanFullDay(row)
}

// ListFullDay returns full-day leaves, optionally narrowed by status.
// Results are newest first.
func (s *Store) ListFullDay(ctx context.Context, status Status) ([]FullDayLeave, error) {
	query := `
		SELECT id, employee_name, employee_id, reason, date_descriptor,
		       start_date, end_date, status, rejection_reason, decided_by, created_at
		FROM full_day_leaves`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list full-day leaves: %w", err)
	}
	defer rows.Close()

	var out []FullDayLeave
	for rows.Next() {
		l, err := scanFullDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListFullDayStarting returns approved full-day leaves beginning on day.
func (s *Store) ListFullDayStarting(ctx context.Context, day time.Time) ([]FullDayLeave, error) {
	d := formatDate(day)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_name, employee_id, reason, date_descriptor,
		       start_date, end_date, status, rejection_reason, decided_by, created_at
		FROM full_day_leaves
		WHERE status = 'approved' AND start_date = ?`, d)
	if err != nil {
		return nil, fmt.Errorf("list full-day leaves starting %s: %w", d, err)
	}
	defer rows.Close()

	var out []FullDayLeave
	for rows.Next() {
		l, err := scanFullDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// =============================================================================
// Hourly leaves
// =============================================================================

// CreateHourly inserts an hourly permission request.
func (s *Store) CreateHourly(ctx context.Context, l *HourlyLeave) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hourly_leaves
			(id, employee_name, employee_id, reason, date, time_descriptor,
			 subtype, status, rejection_reason, decided_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.EmployeeName, l.EmployeeID, l.Reason,
		formatDate(l.Date), l.TimeDescriptor, string(l.Subtype),
		string(l.Status), l.RejectionReason, l.DecidedBy,
		l.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create hourly leave: %w", err)
	}
	return nil
}

// GetHourly returns the hourly leave with the given id.
func (s *Store) GetHourly(ctx context.Context, id string) (HourlyLeave, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_name, employee_id, reason, date, time_descriptor,
		       subtype, status, rejection_reason, decided_by, created_at
		FROM hourly_leaves WHERE id = ?`, id)
	return scanHourly(row)
}

// ListHourly returns hourly leaves, optionally narrowed by status.
// Results are newest first.
func (s *Store) ListHourly(ctx context.Context, status Status) ([]HourlyLeave, error) {
	query := `
		SELECT id, employee_name, employee_id, reason, date, time_descriptor,
		       subtype, status, rejection_reason, decided_by, created_at
		FROM hourly_leaves`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list hourly leaves: %w", err)
	}
	defer rows.Close()

	var out []HourlyLeave
	for rows.Next() {
		l, err := scanHourly(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListHourlyOn returns approved hourly leaves dated day.
func (s *Store) ListHourlyOn(ctx context.Context, day time.Time) ([]HourlyLeave, error) {
	d := formatDate(day)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_name, employee_id, reason, date, time_descriptor,
		       subtype, status, rejection_reason, decided_by, created_at
		FROM hourly_leaves
		WHERE status = 'approved' AND date = ?`, d)
	if err != nil {
		return nil, fmt.Errorf("list hourly leaves on %s: %w", d, err)
	}
	defer rows.Close()

	var out []HourlyLeave
	for rows.Next() {
		l, err := scanHourly(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// =============================================================================
// Decisions
// =============================================================================

// Decide moves a pending request to approved or rejected. The update is
// conditional on the row still being pending, so concurrent approvers
// cannot both win: the loser gets ErrAlreadyDecided.
func (s *Store) Decide(ctx context.Context, kind Kind, id string, status Status, rejectionReason, decidedBy string) error {
	if status != StatusApproved && status != StatusRejected {
		return fmt.Errorf("invalid decision status: %q", status)
	}
	table, ok := map[Kind]string{
		KindFullDay: "full_day_leaves",
		KindHourly:  "hourly_leaves",
	}[kind]
	if !ok {
		return fmt.Errorf("invalid request kind: %q", kind)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE `+table+`
		SET status = ?, rejection_reason = ?, decided_by = ?
		WHERE id = ? AND status = 'pending'`,
		string(status), rejectionReason, decidedBy, id)
	if err != nil {
		return fmt.Errorf("decide %s request: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decide %s request: %w", kind, err)
	}
	if n == 0 {
		// Distinguish a missing row from a decided one.
		var exists int
		row := s.db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id)
		if err := row.Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("decide %s request: %w", kind, err)
		}
		return ErrAlreadyDecided
	}
	return nil
}

// =============================================================================
// Suggestions
// =============================================================================

// CreateSuggestion inserts a suggestion.
func (s *Store) CreateSuggestion(ctx context.Context, sg *Suggestion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suggestions (id, message, sender, submitted_at)
		VALUES (?, ?, ?, ?)`,
		sg.ID, sg.Message, sg.Sender, sg.SubmittedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create suggestion: %w", err)
	}
	return nil
}

// ListSuggestions returns all suggestions, newest first.
func (s *Store) ListSuggestions(ctx context.Context) ([]Suggestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, sender, submitted_at
		FROM suggestions ORDER BY submitted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var sg Suggestion
		var submitted string
		if err := rows.Scan(&sg.ID, &sg.Message, &sg.Sender, &submitted); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		sg.SubmittedAt, _ = time.Parse(time.RFC3339, submitted)
		out = append(out, sg)
	}
	return out, rows.Err()
}

// =============================================================================
// Directory
// =============================================================================

// UpsertUser inserts or updates a directory user.
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, role) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, role = excluded.role`,
		u.ID, u.Name, string(u.Role))
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUser returns the user with the given id.
func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	var role string
	row := s.db.QueryRowContext(ctx, `SELECT id, name, role FROM users WHERE id = ?`, id)
	if err := row.Scan(&u.ID, &u.Name, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	u.Role = Role(role)
	return u, nil
}

// ListUsers returns directory users, optionally narrowed by role.
func (s *Store) ListUsers(ctx context.Context, role Role) ([]User, error) {
	query := `SELECT id, name, role FROM users`
	args := []any{}
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, string(role))
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		var r string
		if err := rows.Scan(&u.ID, &u.Name, &r); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = Role(r)
		out = append(out, u)
	}
	return out, rows.Err()
}

// =============================================================================
// Scan helpers
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFullDay(r rowScanner) (FullDayLeave, error) {
	var l FullDayLeave
	var start, end, status, created string
	err := r.Scan(&l.ID, &l.EmployeeName, &l.EmployeeID, &l.Reason, &l.DateDescriptor,
		&start, &end, &status, &l.RejectionReason, &l.DecidedBy, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FullDayLeave{}, ErrNotFound
		}
		return FullDayLeave{}, fmt.Errorf("scan full-day leave: %w", err)
	}
	l.StartDate = parseDate(start)
	l.EndDate = parseDate(end)
	l.Status = Status(status)
	l.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return l, nil
}

func scanHourly(r rowScanner) (HourlyLeave, error) {
	var l HourlyLeave
	var date, subtype, status, created string
	err := r.Scan(&l.ID, &l.EmployeeName, &l.EmployeeID, &l.Reason, &date, &l.TimeDescriptor,
		&subtype, &status, &l.RejectionReason, &l.DecidedBy, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return HourlyLeave{}, ErrNotFound
		}
		return HourlyLeave{}, fmt.Errorf("scan hourly leave: %w", err)
	}
	l.Date = parseDate(date)
	l.Subtype = Subtype(subtype)
	l.Status = Status(status)
	l.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return l, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(dateLayout, s)
	return t
}
