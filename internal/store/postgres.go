package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresKV persists the key-value primitives in PostgreSQL.
type PostgresKV struct {
	pool *pgxpool.Pool
}

func NewPostgresKV(ctx context.Context, databaseURL string) (*PostgresKV, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initKVSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresKV{pool: pool}, nil
}

func initKVSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv_lists (
			key TEXT NOT NULL,
			seq BIGSERIAL,
			value TEXT NOT NULL,
			PRIMARY KEY (key, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS kv_sets (
			key TEXT NOT NULL,
			member TEXT NOT NULL,
			PRIMARY KEY (key, member)
		);`,
		`CREATE TABLE IF NOT EXISTS kv_hashes (
			key TEXT NOT NULL,
			field TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (key, field)
		);`,
		`CREATE TABLE IF NOT EXISTS kv_values (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at TIMESTAMPTZ NULL
		);`,
		`CREATE TABLE IF NOT EXISTS kv_tickets (
			key TEXT PRIMARY KEY,
			ts TIMESTAMPTZ NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init kv schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresKV) ListAppend(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, v := range values {
		batch.Queue(`INSERT INTO kv_lists (key, value) VALUES ($1, $2)`, key, v)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("list append: %w", err)
	}
	return nil
}

func (s *PostgresKV) ListAppendTrim(ctx context.Context, key string, keep int, values ...string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, v := range values {
		if _, err := tx.Exec(ctx, `INSERT INTO kv_lists (key, value) VALUES ($1, $2)`, key, v); err != nil {
			return fmt.Errorf("list append: %w", err)
		}
	}
	if keep >= 0 {
		_, err = tx.Exec(ctx,
			`DELETE FROM kv_lists WHERE key = $1 AND seq NOT IN (
				SELECT seq FROM kv_lists WHERE key = $1 ORDER BY seq DESC LIMIT $2
			)`, key, keep)
		if err != nil {
			return fmt.Errorf("list trim: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *PostgresKV) ListRange(ctx context.Context, key string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT value FROM kv_lists WHERE key = $1 ORDER BY seq ASC`, key)
	if err != nil {
		return nil, fmt.Errorf("list range: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan list row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate list rows: %w", err)
	}
	return out, nil
}

func (s *PostgresKV) SetAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range members {
		batch.Queue(
			`INSERT INTO kv_sets (key, member) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			key, m)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("set add: %w", err)
	}
	return nil
}

func (s *PostgresKV) SetHas(ctx context.Context, key, member string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM kv_sets WHERE key = $1 AND member = $2)`,
		key, member).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("set has: %w", err)
	}
	return exists, nil
}

func (s *PostgresKV) SetMembers(ctx context.Context, key string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT member FROM kv_sets WHERE key = $1`, key)
	if err != nil {
		return nil, fmt.Errorf("set members: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan set row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate set rows: %w", err)
	}
	return out, nil
}

func (s *PostgresKV) HashSet(ctx context.Context, key, field, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv_hashes (key, field, value) VALUES ($1, $2, $3)
		 ON CONFLICT (key, field) DO UPDATE SET value = EXCLUDED.value`,
		key, field, value)
	if err != nil {
		return fmt.Errorf("hash set: %w", err)
	}
	return nil
}

func (s *PostgresKV) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT field, value FROM kv_hashes WHERE key = $1`, key)
	if err != nil {
		return nil, fmt.Errorf("hash getall: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var f, v string
		if err := rows.Scan(&f, &v); err != nil {
			return nil, fmt.Errorf("scan hash row: %w", err)
		}
		out[f] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hash rows: %w", err)
	}
	return out, nil
}

func (s *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var expiresAt *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT value, expires_at FROM kv_values WHERE key = $1`, key).
		Scan(&value, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get value: %w", err)
	}
	if expiresAt != nil && !time.Now().Before(*expiresAt) {
		// Lazy expiry; failures here only delay cleanup.
		_, _ = s.pool.Exec(ctx, `DELETE FROM kv_values WHERE key = $1`, key)
		return "", false, nil
	}
	return value, true, nil
}

func (s *PostgresKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv_values (key, value, expires_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	return nil
}

func (s *PostgresKV) AcquireTicket(ctx context.Context, key string, now time.Time, window time.Duration) (bool, error) {
	// Single statement so the check and the write cannot interleave with a
	// concurrent request for the same key.
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO kv_tickets (key, ts) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET ts = EXCLUDED.ts
		 WHERE kv_tickets.ts <= $3`,
		key, now, now.Add(-window))
	if err != nil {
		return false, fmt.Errorf("acquire ticket: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, table := range []string{"kv_lists", "kv_sets", "kv_hashes", "kv_values", "kv_tickets"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE key = ANY($1)`, keys); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *PostgresKV) Close() error {
	s.pool.Close()
	return nil
}
