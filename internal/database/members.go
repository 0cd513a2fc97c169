package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertMember inserts or refreshes a member's identity fields. The
// bots_created counter is never touched by the upsert, so re-registering a
// returning member preserves it.
func (s *sqlxStore) UpsertMember(ctx context.Context, userID int64, firstName, username string) error {
	query := `
        INSERT INTO members (user_id, first_name, username, joined_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            first_name = excluded.first_name,
            username   = excluded.username,
            joined_at  = excluded.joined_at;
    `

	if _, err := s.db.ExecContext(ctx, query, userID, firstName, nullString(username), s.now()); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting member", "user_id", userID, "error", err)
		return fmt.Errorf("failed to upsert member %d: %w", userID, err)
	}
	return nil
}

// GetMember retrieves a member by user ID. Returns nil, nil if not found.
func (s *sqlxStore) GetMember(ctx context.Context, userID int64) (*Member, error) {
	var member Member
	query := `SELECT user_id, first_name, username, joined_at, bots_created FROM members WHERE user_id = ?`

	err := s.db.GetContext(ctx, &member, query, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting member", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get member %d: %w", userID, err)
	}
	return &member, nil
}

// ListMembers retrieves all members.
func (s *sqlxStore) ListMembers(ctx context.Context) ([]Member, error) {
	var members []Member
	query := `SELECT user_id, first_name, username, joined_at, bots_created FROM members`

	if err := s.db.SelectContext(ctx, &members, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing members", "error", err)
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// IncrementBotsCreated adds one to the member's bots_created counter.
// Incrementing a nonexistent member affects zero rows and is not an error;
// callers ensure the member exists via UpsertMember first.
func (s *sqlxStore) IncrementBotsCreated(ctx context.Context, userID int64) error {
	query := `UPDATE members SET bots_created = bots_created + 1 WHERE user_id = ?`

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error incrementing bots_created", "user_id", userID, "error", err)
		return fmt.Errorf("failed to increment bots_created for member %d: %w", userID, err)
	}
	return nil
}
