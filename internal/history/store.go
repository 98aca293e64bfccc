package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Store persists usage history per user in SQLite. Load applies the retention
// window so callers only ever see entries that still block reuse.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store backed by an existing database connection.
func NewStore(d *sql.DB) *Store {
	return &Store{db: d}
}

// Load retrieves the non-expired history snapshot for a user.
func (s *Store) Load(ctx context.Context, userID string) (Snapshot, error) {
	cutoff := time.Now().Add(-RetentionWindow).UnixMilli()
	rows, err := s.db.QueryContext(ctx, `
		SELECT recipe_id, used_at_ms FROM usage_history
		WHERE user_id = ? AND used_at_ms >= ?`, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for user %s: %w", userID, err)
	}
	defer rows.Close()

	snap := make(Snapshot)
	for rows.Next() {
		var recipeID string
		var usedAt int64
		if err := rows.Scan(&recipeID, &usedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		snap[recipeID] = usedAt
	}
	return snap, rows.Err()
}

// Save upserts every entry of the snapshot in one transaction. Combined with
// Load this forms a single read-then-write unit per plan request.
func (s *Store) Save(ctx context.Context, userID string, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	for recipeID, usedAt := range snap {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO usage_history (user_id, recipe_id, used_at_ms)
			VALUES (?, ?, ?)
			ON CONFLICT(user_id, recipe_id) DO UPDATE SET used_at_ms = excluded.used_at_ms`,
			userID, recipeID, usedAt); err != nil {
			return fmt.Errorf("failed to upsert history entry %s: %w", recipeID, err)
		}
	}
	return tx.Commit()
}

// Cleanup removes expired entries for all users and returns the number of
// rows deleted.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-RetentionWindow).UnixMilli()
	res, err := s.db.ExecContext(ctx, `DELETE FROM usage_history WHERE used_at_ms < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up history: %w", err)
	}
	return res.RowsAffected()
}
