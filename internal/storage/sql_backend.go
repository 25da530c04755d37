package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

const sqlTimeLayout = time.RFC3339Nano

type sqlDialect struct {
	name     string
	read     string
	write    string
	archive  string
	classify func(error) error
}

var sqliteDialect = sqlDialect{
	name: "sqlite",
	read: `SELECT payload FROM app_state WHERE key = ?`,
	write: `
		INSERT INTO app_state (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
	archive:  `INSERT INTO app_state_archive (key, payload, archived_at) VALUES (?, ?, ?)`,
	classify: classifySQLiteError,
}

var postgresDialect = sqlDialect{
	name: "postgres",
	read: `SELECT payload FROM app_state WHERE key = $1`,
	write: `
		INSERT INTO app_state (key, payload, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
	archive:  `INSERT INTO app_state_archive (key, payload, archived_at) VALUES ($1, $2, $3)`,
	classify: classifyPostgresError,
}

// SQLBackend stores the blob as one row of app_state, keyed by the
// namespaced key.
type SQLBackend struct {
	db      *sql.DB
	key     string
	dialect sqlDialect
}

func newSQLBackend(db *sql.DB, key string, dialect sqlDialect) (*SQLBackend, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	return &SQLBackend{db: db, key: key, dialect: dialect}, nil
}

func NewSQLiteBackend(db *sql.DB, key string) (*SQLBackend, error) {
	return newSQLBackend(db, key, sqliteDialect)
}

func NewPostgresBackend(db *sql.DB, key string) (*SQLBackend, error) {
	return newSQLBackend(db, key, postgresDialect)
}

// OpenSQLite opens the database file and applies migrations.
func OpenSQLite(ctx context.Context, path, key string) (*SQLBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", classifySQLiteError(err))
	}
	if err := MigrateUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteBackend(db, key)
}

// OpenPostgres connects through the pgx stdlib driver and applies migrations.
func OpenPostgres(ctx context.Context, databaseURL, key string) (*SQLBackend, error) {
	config, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	db := stdlib.OpenDB(*config)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres: %w", classifyPostgresError(err))
	}
	if err := MigrateUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewPostgresBackend(db, key)
}

func (b *SQLBackend) Dialect() string {
	return b.dialect.name
}

func (b *SQLBackend) Read(ctx context.Context) ([]byte, error) {
	var payload string
	err := b.db.QueryRowContext(ctx, b.dialect.read, b.key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, b.dialect.classify(err)
	}
	return []byte(payload), nil
}

func (b *SQLBackend) Write(ctx context.Context, payload []byte) error {
	res, err := b.db.ExecContext(ctx, b.dialect.write, b.key, string(payload), time.Now().UTC().Format(sqlTimeLayout))
	if err != nil {
		return b.dialect.classify(err)
	}
	return checkRowsAffected(res)
}

func (b *SQLBackend) Archive(ctx context.Context, raw []byte) error {
	_, err := b.db.ExecContext(ctx, b.dialect.archive, b.key, string(raw), time.Now().UTC().Format(sqlTimeLayout))
	if err != nil {
		return b.dialect.classify(err)
	}
	return nil
}

// ArchivedCount reports how many corrupt blobs were kept for the key.
func (b *SQLBackend) ArchivedCount(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM app_state_archive WHERE key = ?`
	if b.dialect.name == postgresDialect.name {
		query = `SELECT COUNT(*) FROM app_state_archive WHERE key = $1`
	}
	var n int
	if err := b.db.QueryRowContext(ctx, query, b.key).Scan(&n); err != nil {
		return 0, b.dialect.classify(err)
	}
	return n, nil
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("storage: write affected no rows")
	}
	return nil
}

func classifySQLiteError(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code {
	case sqlite3.ErrFull:
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case sqlite3.ErrReadonly, sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrCantOpen:
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	default:
		return err
	}
}

func classifyPostgresError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "53100", "53200":
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case "42501", "28000", "28P01":
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	default:
		return err
	}
}
