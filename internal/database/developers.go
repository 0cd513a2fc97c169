package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertDeveloper grants the developer role; re-adding replaces the stored
// metadata. Pass addedBy as 0 when the grantor is unknown.
func (s *sqlxStore) UpsertDeveloper(ctx context.Context, userID int64, username string, addedBy int64) error {
	query := `
        INSERT INTO developers (user_id, username, added_at, added_by)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            username = excluded.username,
            added_at = excluded.added_at,
            added_by = excluded.added_by;
    `

	if _, err := s.db.ExecContext(ctx, query, userID, nullString(username), s.now(), nullInt64(addedBy)); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting developer", "user_id", userID, "error", err)
		return fmt.Errorf("failed to upsert developer %d: %w", userID, err)
	}
	return nil
}

// RemoveDeveloper revokes the developer role and reports whether a row was
// removed.
func (s *sqlxStore) RemoveDeveloper(ctx context.Context, userID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM developers WHERE user_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error removing developer", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to remove developer %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// ListDevelopers retrieves all developers.
func (s *sqlxStore) ListDevelopers(ctx context.Context) ([]Developer, error) {
	var developers []Developer
	if err := s.db.SelectContext(ctx, &developers, `SELECT * FROM developers`); err != nil {
		s.logger.ErrorContext(ctx, "Error listing developers", "error", err)
		return nil, fmt.Errorf("failed to list developers: %w", err)
	}
	return developers, nil
}

// IsDeveloper reports whether the user holds the developer role.
func (s *sqlxStore) IsDeveloper(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.GetContext(ctx, &one, `SELECT 1 FROM developers WHERE user_id = ?`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error checking developer role", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to check developer role for %d: %w", userID, err)
	}
	return true, nil
}
