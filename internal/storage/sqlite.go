package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is a single-table KV on top of modernc.org/sqlite.
type SQLite struct {
	db *sql.DB

	stmtGet *sql.Stmt
	stmtSet *sql.Stmt
}

func NewSQLite(dataDir string) (*SQLite, error) {
	dbPath := filepath.Join(dataDir, "planning.sqlite")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &SQLite{db: db}
	if err := s.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) init(ctx context.Context) error {
	// WAL keeps reads cheap while the debounced writer flushes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, q := range pragmas {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	if _, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);`); err != nil {
		return err
	}

	var err error
	if s.stmtGet, err = s.db.PrepareContext(ctx, `SELECT value FROM kv WHERE key = ?`); err != nil {
		return err
	}
	if s.stmtSet, err = s.db.PrepareContext(ctx, `
INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`); err != nil {
		return err
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.stmtGet.QueryRowContext(ctx, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.stmtSet.ExecContext(ctx, key, value, time.Now().Unix())
	return err
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	for _, st := range []*sql.Stmt{s.stmtGet, s.stmtSet} {
		if st != nil {
			_ = st.Close()
		}
	}
	return s.db.Close()
}
