// Package sqlite provides a SQLite-backed implementation of the
// storage.Store snapshot cache.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/splitfair/splitfair/internal/models"
	"github.com/splitfair/splitfair/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot replaces the cached snapshot for the snapshot's group.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	if snap.GroupID == "" {
		return fmt.Errorf("snapshot has no group id")
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}

	var groupJSON sql.NullString
	if snap.Group != nil {
		data, err := json.Marshal(snap.Group)
		if err != nil {
			return fmt.Errorf("failed to encode group: %w", err)
		}
		groupJSON = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace any previous snapshot for this group; cascades clear the
	// expense and balance rows.
	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE group_id = ?", snap.GroupID); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO snapshots (group_id, group_json, fetched_at) VALUES (?, ?, ?)",
		snap.GroupID, groupJSON, snap.FetchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for i, expense := range snap.Expenses {
		payload, err := json.Marshal(expense)
		if err != nil {
			return fmt.Errorf("failed to encode expense: %w", err)
		}
		id := expense.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO snapshot_expenses (id, group_id, position, payload) VALUES (?, ?, ?, ?)",
			id, snap.GroupID, i, string(payload),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
	}

	for _, entry := range snap.Summary {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO snapshot_balances (group_id, user_id, email, name, balance) VALUES (?, ?, ?, ?, ?)",
			snap.GroupID, entry.UserID, entry.Email, entry.Name, entry.Balance,
		)
		if err != nil {
			return fmt.Errorf("failed to insert balance entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSnapshot retrieves the cached snapshot for a group, including all
// expenses and balance entries.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, groupID string) (*models.Snapshot, error) {
	snap := &models.Snapshot{GroupID: groupID}
	var groupJSON sql.NullString
	var fetchedAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT group_json, fetched_at FROM snapshots WHERE group_id = ?",
		groupID,
	).Scan(&groupJSON, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	snap.FetchedAt = time.Unix(fetchedAt, 0)

	if groupJSON.Valid {
		group := &models.Group{}
		if err := json.Unmarshal([]byte(groupJSON.String), group); err != nil {
			return nil, fmt.Errorf("failed to decode group: %w", err)
		}
		snap.Group = group
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM snapshot_expenses WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		var expense models.Expense
		if err := json.Unmarshal([]byte(payload), &expense); err != nil {
			return nil, fmt.Errorf("failed to decode expense: %w", err)
		}
		snap.Expenses = append(snap.Expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	balRows, err := s.db.QueryContext(ctx,
		"SELECT user_id, email, name, balance FROM snapshot_balances WHERE group_id = ? ORDER BY user_id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	defer balRows.Close()

	for balRows.Next() {
		var entry models.BalanceEntry
		if err := balRows.Scan(&entry.UserID, &entry.Email, &entry.Name, &entry.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance entry: %w", err)
		}
		snap.Summary = append(snap.Summary, entry)
	}
	if err := balRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance entries: %w", err)
	}

	return snap, nil
}
