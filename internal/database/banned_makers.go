package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// BanMaker forbids a user from creating new hosted bots. Banning an already
// banned user refreshes the stored metadata. Bots the user already owns are
// unaffected. Pass bannedBy as 0 when the banning operator is unknown.
func (s *sqlxStore) BanMaker(ctx context.Context, userID, bannedBy int64) error {
	query := `
        INSERT INTO banned_makers (user_id, banned_at, banned_by)
        VALUES (?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            banned_at = excluded.banned_at,
            banned_by = excluded.banned_by;
    `

	if _, err := s.db.ExecContext(ctx, query, userID, s.now(), nullInt64(bannedBy)); err != nil {
		s.logger.ErrorContext(ctx, "Error banning maker", "user_id", userID, "error", err)
		return fmt.Errorf("failed to ban maker %d: %w", userID, err)
	}
	return nil
}

// UnbanMaker lifts the bot-creation ban and reports whether a row was
// removed.
func (s *sqlxStore) UnbanMaker(ctx context.Context, userID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM banned_makers WHERE user_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error unbanning maker", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to unban maker %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// IsMakerBanned reports whether the user is banned from creating bots.
func (s *sqlxStore) IsMakerBanned(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.GetContext(ctx, &one, `SELECT 1 FROM banned_makers WHERE user_id = ?`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error checking maker ban", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to check maker ban for %d: %w", userID, err)
	}
	return true, nil
}

// ListBannedMakerIDs retrieves the IDs of all banned makers.
func (s *sqlxStore) ListBannedMakerIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM banned_makers`); err != nil {
		s.logger.ErrorContext(ctx, "Error listing banned makers", "error", err)
		return nil, fmt.Errorf("failed to list banned makers: %w", err)
	}
	return ids, nil
}
