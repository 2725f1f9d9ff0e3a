// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using a pure Go driver (no CGO).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeyoh/moneyball/internal/model"
	"github.com/jeyoh/moneyball/internal/storage"
)

// Storage implements storage.Storage using SQLite
type Storage struct {
	db *sqlx.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New opens (or creates) the database at dbPath and runs migrations
func New(dbPath string) (*Storage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids busy errors
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Balance operations

func (s *Storage) AddToBalance(ctx context.Context, nameA, nameB string, delta int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balance (name_a, name_b, debt) VALUES (?, ?, ?)
		ON CONFLICT (name_a, name_b) DO UPDATE SET debt = debt + excluded.debt`,
		nameA, nameB, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

func (s *Storage) GetBalance(ctx context.Context, nameA, nameB string) (int64, error) {
	var debt int64
	err := s.db.GetContext(ctx, &debt,
		"SELECT debt FROM balance WHERE name_a = ? AND name_b = ?", nameA, nameB)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return debt, nil
}

type balanceRow struct {
	NameA string `db:"name_a"`
	NameB string `db:"name_b"`
	Debt  int64  `db:"debt"`
}

func (s *Storage) ListBalances(ctx context.Context, name string) ([]model.BalanceEntry, error) {
	var rows []balanceRow
	var err error
	if name != "" {
		err = s.db.SelectContext(ctx, &rows,
			"SELECT name_a, name_b, debt FROM balance WHERE name_a = ? OR name_b = ? ORDER BY name_a, name_b",
			name, name)
	} else {
		err = s.db.SelectContext(ctx, &rows,
			"SELECT name_a, name_b, debt FROM balance ORDER BY name_a, name_b")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	entries := make([]model.BalanceEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.BalanceEntry{NameA: row.NameA, NameB: row.NameB, Debt: row.Debt})
	}
	return entries, nil
}

// Event log operations

type eventRow struct {
	ID        int64  `db:"id"`
	EventType string `db:"event_type"`
	FromName  string `db:"from_name"`
	ToNames   string `db:"to_names"`
	Amount    int64  `db:"amount"`
	Comment   string `db:"comment"`
	CreatedAt int64  `db:"created_at"`
}

func (r eventRow) toModel() model.Event {
	return model.Event{
		ID:        r.ID,
		Type:      model.EventType(r.EventType),
		FromName:  r.FromName,
		ToNames:   r.ToNames,
		Amount:    r.Amount,
		Comment:   r.Comment,
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC(),
	}
}

func (s *Storage) AppendEvent(ctx context.Context, ev *model.Event) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO event (event_type, from_name, to_names, amount, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(ev.Type), ev.FromName, ev.ToNames, ev.Amount, ev.Comment, ev.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read event id: %w", err)
	}
	ev.ID = id
	return nil
}

func (s *Storage) LatestEvent(ctx context.Context) (*model.Event, error) {
	var row eventRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, event_type, from_name, to_names, amount, comment, created_at FROM event ORDER BY id DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoEvents
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest event: %w", err)
	}
	ev := row.toModel()
	return &ev, nil
}

func (s *Storage) DeleteEvent(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM event WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (s *Storage) ListEvents(ctx context.Context, limit int, names ...string) ([]model.Event, error) {
	query := "SELECT id, event_type, from_name, to_names, amount, comment, created_at FROM event"
	var args []any
	var conds []string
	for _, name := range names {
		// A name matches when it is the sender or appears in the
		// comma-joined recipient list
		conds = append(conds, "(from_name = ? OR (',' || to_names || ',') LIKE ('%,' || ? || ',%'))")
		args = append(args, name, name)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]model.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toModel())
	}
	return events, nil
}

// Baseball session operations

type sessionRow struct {
	UserID    string `db:"user_id"`
	Answer    string `db:"answer"`
	Trial     int    `db:"trial"`
	Log       string `db:"log"`
	Meta      string `db:"meta"`
	StartedAt int64  `db:"started_at"`
}

func (s *Storage) SaveSession(ctx context.Context, sess *model.BaseballSession) error {
	meta, err := json.Marshal(sess.Meta)
	if err != nil {
		return fmt.Errorf("failed to encode session meta: %w", err)
	}
	log := []byte("[]")
	if len(sess.Log) > 0 {
		if log, err = json.Marshal(sess.Log); err != nil {
			return fmt.Errorf("failed to encode session log: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO baseball_session (user_id, answer, trial, log, meta, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			answer = excluded.answer,
			trial = excluded.trial,
			log = excluded.log,
			meta = excluded.meta,
			started_at = excluded.started_at`,
		sess.UserID, sess.Answer, sess.Trial, string(log), string(meta), sess.StartedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, userID string) (*model.BaseballSession, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row,
		"SELECT user_id, answer, trial, log, meta, started_at FROM baseball_session WHERE user_id = ?",
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess := &model.BaseballSession{
		UserID:    row.UserID,
		Answer:    row.Answer,
		Trial:     row.Trial,
		StartedAt: time.Unix(row.StartedAt, 0).UTC(),
	}
	if err := json.Unmarshal([]byte(row.Meta), &sess.Meta); err != nil {
		return nil, fmt.Errorf("failed to decode session meta: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Log), &sess.Log); err != nil {
		return nil, fmt.Errorf("failed to decode session log: %w", err)
	}
	return sess, nil
}

func (s *Storage) DeleteSession(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM baseball_session WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
