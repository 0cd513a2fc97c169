package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AppendMemory stores one conversation turn and prunes the (botToken,
// userID) partition down to the retention window, both in one transaction.
// Ordering uses (created_at, id) so same-instant writes still retain a
// deterministic set.
func (s *sqlxStore) AppendMemory(ctx context.Context, botToken string, userID int64, role MemoryRole, content string) error {
	if !role.Valid() {
		return fmt.Errorf("invalid memory role %q", role)
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		insert := `
            INSERT INTO memory_entries (bot_token, user_id, role, content, created_at)
            VALUES (?, ?, ?, ?, ?);
        `
		if _, err := tx.ExecContext(ctx, insert, botToken, userID, role, content, s.now()); err != nil {
			return fmt.Errorf("failed to insert memory entry: %w", err)
		}

		prune := `
            DELETE FROM memory_entries
            WHERE bot_token = ? AND user_id = ? AND id NOT IN (
                SELECT id FROM memory_entries
                WHERE bot_token = ? AND user_id = ?
                ORDER BY created_at DESC, id DESC
                LIMIT ?
            );
        `
		if _, err := tx.ExecContext(ctx, prune, botToken, userID, botToken, userID, memoryWindow); err != nil {
			return fmt.Errorf("failed to prune memory entries: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error appending memory", "user_id", userID, "error", err)
		return fmt.Errorf("failed to append memory for user %d: %w", userID, err)
	}
	return nil
}

// ReadMemory returns the most recent limit turns for the (botToken, userID)
// pair in chronological order, oldest first, ready for conversational
// replay. A non-positive limit falls back to the retention window size.
func (s *sqlxStore) ReadMemory(ctx context.Context, botToken string, userID int64, limit int) ([]MemoryTurn, error) {
	if limit <= 0 {
		limit = defaultMemoryLimit
	}

	var turns []MemoryTurn
	query := `
        SELECT role, content FROM memory_entries
        WHERE bot_token = ? AND user_id = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &turns, query, botToken, userID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error reading memory", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to read memory for user %d: %w", userID, err)
	}

	// The fetch is newest-first; replay needs oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// ClearMemory deletes the stored conversation for one user of a bot.
func (s *sqlxStore) ClearMemory(ctx context.Context, botToken string, userID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM memory_entries WHERE bot_token = ? AND user_id = ?`, botToken, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error clearing memory", "user_id", userID, "error", err)
		return fmt.Errorf("failed to clear memory for user %d: %w", userID, err)
	}
	return nil
}

// ClearBotMemory deletes all stored conversations for a bot.
func (s *sqlxStore) ClearBotMemory(ctx context.Context, botToken string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM memory_entries WHERE bot_token = ?`, botToken); err != nil {
		s.logger.ErrorContext(ctx, "Error clearing bot memory", "error", err)
		return fmt.Errorf("failed to clear bot memory: %w", err)
	}
	return nil
}
