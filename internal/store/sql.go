package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// dialect holds the statements that differ between SQL engines.
type dialect struct {
	driverName  string
	createTable string
	get         string
	upsert      string
	remove      string
}

var dialects = map[string]dialect{
	"sqlite": {
		driverName: "sqlite",
		createTable: `CREATE TABLE IF NOT EXISTS kv (
			name       TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
		)`,
		get: `SELECT value FROM kv WHERE name = ?`,
		upsert: `INSERT OR REPLACE INTO kv (name, value, updated_at)
			VALUES (?, ?, datetime('now'))`,
		remove: `DELETE FROM kv WHERE name = ?`,
	},
	"mysql": {
		driverName: "mysql",
		createTable: `CREATE TABLE IF NOT EXISTS kv (
			name       VARCHAR(191) PRIMARY KEY,
			value      LONGTEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		get:    `SELECT value FROM kv WHERE name = ?`,
		upsert: `INSERT INTO kv (name, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)`,
		remove: `DELETE FROM kv WHERE name = ?`,
	},
	"postgres": {
		driverName: "pgx",
		createTable: `CREATE TABLE IF NOT EXISTS kv (
			name       TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		get: `SELECT value FROM kv WHERE name = $1`,
		upsert: `INSERT INTO kv (name, value, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		remove: `DELETE FROM kv WHERE name = $1`,
	},
}

// SQLStore keeps key-value slots in a single "kv" table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath. Use
// ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	return NewSQLStore(context.Background(), "sqlite", dbPath)
}

// NewSQLStore opens a database for driver ("sqlite", "mysql" or "postgres")
// and ensures the kv table exists.
func NewSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	if driver == "sqlite" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == "sqlite" {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.remove, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Ping verifies the database connection is alive.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
