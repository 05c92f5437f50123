package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
	"github.com/React-ChatBotify/rag-api-sub000/internal/port"
)

// State describes the initialization lifecycle of the store. Every operation
// is gated on StateReady, so a StoreNotReady failure is structural rather
// than an ad-hoc nil check.
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

// PostgresStore handles all relational database operations, including the
// parent-document table and request audit logs. It is safe for concurrent
// use by multiple in-flight requests.
type PostgresStore struct {
	db    *sql.DB
	state atomic.Int32
}

// NewPostgresStore opens a connection pool. The store is not usable until
// Init has succeeded.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Init pings the database and ensures the schema exists. dimension is the
// embedding vector width of the chunks table. On failure the store moves to
// StateFailed and all operations keep returning ErrStoreNotReady.
func (s *PostgresStore) Init(ctx context.Context, dimension int) error {
	if err := s.db.PingContext(ctx); err != nil {
		s.state.Store(int32(StateFailed))
		return fmt.Errorf("ping database: %w", err)
	}

	schema := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS documents (
			id         TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			id                 TEXT PRIMARY KEY,
			parent_document_id TEXT NOT NULL,
			text_chunk         TEXT NOT NULL,
			embedding          vector(%d) NOT NULL,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, dimension),
		`CREATE INDEX IF NOT EXISTS chunks_parent_document_id_idx ON chunks (parent_document_id)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id         BIGSERIAL PRIMARY KEY,
			action     TEXT NOT NULL,
			resource   TEXT NOT NULL,
			details    JSONB NOT NULL DEFAULT '{}',
			ip         TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.state.Store(int32(StateFailed))
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	s.state.Store(int32(StateReady))
	return nil
}

// State returns the current lifecycle state.
func (s *PostgresStore) State() State {
	return State(s.state.Load())
}

// guard returns ErrStoreNotReady unless Init has succeeded.
func (s *PostgresStore) guard() error {
	if s.State() != StateReady {
		return port.ErrStoreNotReady
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Parent documents (port.DocumentStore) ---

// Save upserts a document: creates if absent, overwrites if present.
func (s *PostgresStore) Save(ctx context.Context, documentID, content string) error {
	if err := s.guard(); err != nil {
		return err
	}

	query := `INSERT INTO documents (id, content)
	          VALUES ($1, $2)
	          ON CONFLICT (id) DO UPDATE SET
	              content = EXCLUDED.content,
	              updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, documentID, content); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Get returns a document's content, or port.ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, documentID string) (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}

	var content string
	err := s.db.QueryRowContext(ctx, `SELECT content FROM documents WHERE id = $1`, documentID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", port.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get document: %w", err)
	}
	return content, nil
}

// Delete removes a document. Deleting an absent document is a no-op.
func (s *PostgresStore) Delete(ctx context.Context, documentID string) error {
	if err := s.guard(); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// ListIDs returns all known document identifiers.
func (s *PostgresStore) ListIDs(ctx context.Context) ([]string, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan document id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- Audit logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(action, resource, details, ip, userAgent string) error {
	if err := s.guard(); err != nil {
		return err
	}

	query := `INSERT INTO audit_logs (action, resource, details, ip, user_agent)
	          VALUES ($1, $2, $3::jsonb, $4, $5)`
	_, err := s.db.ExecContext(context.Background(), query, action, resource, details, ip, userAgent)
	return err
}

// ListAuditLogs returns recent audit logs, newest first, with optional filters.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	query := `SELECT id, action, resource, details, ip, user_agent, created_at
	          FROM audit_logs`
	args := []interface{}{}
	argIdx := 1

	if action != "" {
		query += fmt.Sprintf(" WHERE action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(&l.ID, &l.Action, &l.Resource, &l.Details, &l.IP, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
