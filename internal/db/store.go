package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/g960059/cch/internal/model"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("chmod db path: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// UpsertSession inserts or fully overwrites the record with the same ID.
// CreatedAt is refreshed on every save unless the caller supplied one.
// The conflict path updates in place, so a re-saved session keeps its
// original rowid and with it its tie-break slot among equal timestamps.
func (s *Store) UpsertSession(ctx context.Context, session model.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if session.Title == "" {
		return fmt.Errorf("session title is required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions(id, title, pwd, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title=excluded.title,
	pwd=excluded.pwd,
	created_at=excluded.created_at
`, session.ID, session.Title, session.Pwd, ts(session.CreatedAt))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// ListSessions returns sessions most-recent-first. Ties on created_at fall
// back to rowid, i.e. insertion order, with later insertions first. A limit
// of zero or less means no limit.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]model.Session, error) {
	query := `
SELECT id, title, pwd, created_at
FROM sessions
ORDER BY created_at DESC, rowid DESC`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += `
LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]model.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iter sessions: %w", err)
	}
	return out, nil
}

func (s *Store) GetSessionByID(ctx context.Context, id string) (model.Session, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, title, pwd, created_at
FROM sessions
WHERE id = ?
`, id)
	return scanSession(row)
}

// GetSessionByIDFragment returns the most recent session whose ID contains
// fragment as a case-sensitive substring. With multiple matches the newest
// wins; the ambiguity is resolved silently, not reported.
func (s *Store) GetSessionByIDFragment(ctx context.Context, fragment string) (model.Session, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, title, pwd, created_at
FROM sessions
WHERE instr(id, ?) > 0
ORDER BY created_at DESC, rowid DESC
LIMIT 1
`, fragment)
	return scanSession(row)
}

// SearchSessions returns sessions whose title or ID contains query as a
// case-sensitive substring, most-recent-first. instr avoids both LIKE's
// ASCII case folding and its pattern metacharacters.
func (s *Store) SearchSessions(ctx context.Context, query string) ([]model.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, pwd, created_at
FROM sessions
WHERE instr(title, ?) > 0 OR instr(id, ?) > 0
ORDER BY created_at DESC, rowid DESC
`, query, query)
	if err != nil {
		return nil, fmt.Errorf("search sessions: %w", err)
	}
	defer rows.Close()

	out := make([]model.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iter search sessions: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteSessionByID(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete session rows affected: %w", err)
	}
	return affected, nil
}

// DeleteSessionsByIDFragment removes every session whose ID contains
// fragment. Unlike the read path this is deliberately not first-match-only.
func (s *Store) DeleteSessionsByIDFragment(ctx context.Context, fragment string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE instr(id, ?) > 0`, fragment)
	if err != nil {
		return 0, fmt.Errorf("delete sessions by fragment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete sessions by fragment rows affected: %w", err)
	}
	return affected, nil
}

func (s *Store) CountSessions(ctx context.Context) (int64, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

func scanSession(scanner interface{ Scan(dest ...any) error }) (model.Session, error) {
	var (
		session   model.Session
		createdAt string
	)
	if err := scanner.Scan(&session.ID, &session.Title, &session.Pwd, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, ErrNotFound
		}
		return model.Session{}, fmt.Errorf("scan session: %w", err)
	}
	var err error
	session.CreatedAt, err = parseTS(createdAt)
	if err != nil {
		return model.Session{}, fmt.Errorf("parse session created_at: %w", err)
	}
	return session, nil
}

func ts(t time.Time) string {
	return t.UTC().Format(model.TimestampLayout)
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
