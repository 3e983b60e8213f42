// Package store implements the reminder persistence layer atop a pure-Go
// SQLite driver: a single-connection pool (SetMaxOpenConns(1)) so every
// goroutine serializes through one connection, a WithLogger functional
// option defaulting to a discard handler, and an Init(ctx) that runs an
// ordered slice of migrations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/kalo-labs/hkb/internal/hdate"
	"github.com/kalo-labs/hkb/internal/reminder"
)

// ErrNotFound is returned by FetchOne when no row matches id.
var ErrNotFound = errors.New("store: reminder not found")

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a structured logger for the store. Without it, all
// operations log to a discard handler.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

var nopLogger = slog.New(discardHandler{})

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Store is the reminder table backed by a SQLite file at a fixed path.
// db.SetMaxOpenConns(1) serializes statement execution through one
// connection; the mutex on top serializes logical multi-statement
// operations (exec + LastInsertId/RowsAffected + refetch) against each
// other.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	mu     sync.Mutex
}

// New opens (or creates) the SQLite file at dbPath.
func New(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: nopLogger}
	for _, o := range opts {
		o(s)
	}
	s.logger.Debug("store: opened", "path", dbPath)
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS reminders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		note TEXT NOT NULL,
		remind_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}

// Init applies every migration in order. Runs on every open; each
// statement is idempotent.
func (s *Store) Init(ctx context.Context) error {
	start := time.Now()
	for _, ddl := range migrations {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("store: migration failed: %w", err)
		}
	}
	s.logger.Debug("store: migrations applied", "elapsed", time.Since(start))
	return nil
}

// Options is the composable query vocabulary; all set predicates are
// AND-combined.
type Options struct {
	RemindAtGe *hdate.SimpleDate
	RemindAtLe *hdate.SimpleDate
	WithoutIDs []int64
}

func (o Options) whereClause() (string, []any) {
	if o.RemindAtGe == nil && o.RemindAtLe == nil && len(o.WithoutIDs) == 0 {
		return "", nil
	}

	clause := " WHERE "
	var conds []string
	var args []any

	if o.RemindAtGe != nil {
		conds = append(conds, "remind_at >= ?")
		args = append(args, o.RemindAtGe.String())
	}
	if o.RemindAtLe != nil {
		conds = append(conds, "remind_at <= ?")
		args = append(args, o.RemindAtLe.String())
	}
	if len(o.WithoutIDs) > 0 {
		placeholders := ""
		for i, id := range o.WithoutIDs {
			if i > 0 {
				placeholders += ","
			}
			placeholders += "?"
			args = append(args, id)
		}
		conds = append(conds, fmt.Sprintf("id NOT IN (%s)", placeholders))
	}

	out := clause
	for i, c := range conds {
		if i > 0 {
			out += " AND "
		}
		out += c
	}
	return out, args
}

// Between returns Options matching start <= remind_at <= end.
func Between(start, end hdate.SimpleDate) Options {
	return Options{RemindAtGe: &start, RemindAtLe: &end}
}

// FetchMany returns rows matching opts, ordered by ascending id.
func (s *Store) FetchMany(ctx context.Context, opts Options) ([]reminder.Reminder, error) {
	where, args := opts.whereClause()
	query := "SELECT id, note, remind_at, created_at FROM reminders" + where + " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: fetch many: %w", err)
	}
	defer rows.Close()

	var out []reminder.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FetchOne returns the reminder with the given id, or ErrNotFound.
func (s *Store) FetchOne(ctx context.Context, id int64) (reminder.Reminder, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, note, remind_at, created_at FROM reminders WHERE id = ?", id)

	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return reminder.Reminder{}, ErrNotFound
	}
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("store: fetch one %d: %w", id, err)
	}
	return r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(row scanner) (reminder.Reminder, error) {
	var (
		id                int64
		note              string
		remindAt, created string
	)
	if err := row.Scan(&id, &note, &remindAt, &created); err != nil {
		return reminder.Reminder{}, err
	}
	remindAtDate, err := hdate.ParseRFC3339(remindAt)
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("store: parse remind_at: %w", err)
	}
	createdDate, err := hdate.ParseRFC3339(created)
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("store: parse created_at: %w", err)
	}
	return reminder.Reminder{ID: id, Note: note, RemindAt: remindAtDate, CreatedAt: createdDate}, nil
}

// Create inserts a new reminder, stamping CreatedAt with the current local
// time, and returns the full row including its assigned id.
func (s *Store) Create(ctx context.Context, note string, remindAt hdate.SimpleDate) (reminder.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := hdate.NowLocal()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO reminders (note, remind_at, created_at) VALUES (?, ?, ?)",
		note, remindAt.String(), createdAt.String())
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("store: create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("store: create: last insert id: %w", err)
	}
	return reminder.Reminder{ID: id, Note: note, RemindAt: remindAt, CreatedAt: createdAt}, nil
}

// Update touches only the fields provided; a nil note or remindAt means
// "leave unchanged".
func (s *Store) Update(ctx context.Context, id int64, note *string, remindAt *hdate.SimpleDate) (reminder.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note == nil && remindAt == nil {
		return s.FetchOne(ctx, id)
	}

	setClauses := ""
	var args []any
	if note != nil {
		setClauses += "note = ?"
		args = append(args, *note)
	}
	if remindAt != nil {
		if setClauses != "" {
			setClauses += ", "
		}
		setClauses += "remind_at = ?"
		args = append(args, remindAt.String())
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE reminders SET "+setClauses+" WHERE id = ?", args...)
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("store: update %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("store: update %d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return reminder.Reminder{}, ErrNotFound
	}
	return s.FetchOne(ctx, id)
}

// DeleteOne removes the reminder with the given id.
func (s *Store) DeleteOne(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("store: delete %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes every reminder matching opts, used by the scheduler's
// expiry sweep.
func (s *Store) DeleteMany(ctx context.Context, opts Options) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	where, args := opts.whereClause()
	if where == "" {
		return 0, fmt.Errorf("store: delete many: refusing unconditional delete")
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM reminders"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("store: delete many: %w", err)
	}
	return res.RowsAffected()
}
