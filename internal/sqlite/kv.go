package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/suasdigital/caseflow/internal/repository"
)

// Blob keys within a scope.
const (
	KeyCases        = "cases"
	KeySelectedCase = "selected_case"
	KeyWorkflow     = "workflow"
	KeyReferrals    = "referrals"
	KeySeedMode     = "seed_mode"
)

// LegacyScope is the scope value used before storage became scoped. On
// first access a legacy row is moved into the scope that reads it, so old
// installations keep their data.
const LegacyScope = ""

// Store is the scoped key-value blob store all repositories share. Each
// value is one JSON document written in a single statement, so a write is
// either fully visible or not at all.
type Store struct {
	db     *DB
	logger *slog.Logger
}

// NewStore creates a blob store over db.
func NewStore(db *DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Get unmarshals the blob at (scope, key) into out. It returns
// repository.ErrNotFound for a missing key; a corrupt blob degrades to
// not-found so the system stays usable with damaged local state.
func (s *Store) Get(ctx context.Context, scope, key string, out any) error {
	if err := s.migrateLegacy(ctx, scope, key); err != nil {
		return err
	}

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM scope_blobs WHERE scope = ? AND key = ?`,
		scope, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading blob %s/%s: %w", scope, key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn("corrupt blob treated as empty", "scope", scope, "key", key, "error", err)
		return repository.ErrNotFound
	}
	return nil
}

// Put marshals v and writes it at (scope, key) in one statement.
func (s *Store) Put(ctx context.Context, scope, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding blob %s/%s: %w", scope, key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scope_blobs (scope, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (scope, key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`,
		scope, key, string(raw))
	if err != nil {
		return fmt.Errorf("writing blob %s/%s: %w", scope, key, err)
	}
	return nil
}

// Delete removes the blob at (scope, key). Deleting a missing key is not an
// error.
func (s *Store) Delete(ctx context.Context, scope, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM scope_blobs WHERE scope = ? AND key = ?`, scope, key); err != nil {
		return fmt.Errorf("deleting blob %s/%s: %w", scope, key, err)
	}
	return nil
}

// migrateLegacy moves an unscoped row into the first scope that reads the
// key. The move is transactional, so the data exists in exactly one place
// afterwards.
func (s *Store) migrateLegacy(ctx context.Context, scope, key string) error {
	if scope == LegacyScope {
		return nil
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scope_blobs WHERE scope = ? AND key = ?`,
		scope, key).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking blob %s/%s: %w", scope, key, err)
	}
	if exists > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting legacy migration: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT value FROM scope_blobs WHERE scope = ? AND key = ?`,
		LegacyScope, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading legacy blob %s: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scope_blobs (scope, key, value) VALUES (?, ?, ?)`,
		scope, key, raw); err != nil {
		return fmt.Errorf("migrating legacy blob %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scope_blobs WHERE scope = ? AND key = ?`,
		LegacyScope, key); err != nil {
		return fmt.Errorf("removing legacy blob %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing legacy migration: %w", err)
	}
	s.logger.Info("migrated legacy blob", "scope", scope, "key", key)
	return nil
}
