package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SetFakeSub configures the channel-subscription gate for a bot. At most one
// row exists per bot; setting again replaces it.
func (s *sqlxStore) SetFakeSub(ctx context.Context, botToken string, enabled bool, message string) error {
	query := `
        INSERT INTO fake_subs (bot_token, enabled, message, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (bot_token) DO UPDATE SET
            enabled    = excluded.enabled,
            message    = excluded.message,
            updated_at = excluded.updated_at;
    `

	if _, err := s.db.ExecContext(ctx, query, botToken, enabled, nullString(message), s.now()); err != nil {
		s.logger.ErrorContext(ctx, "Error setting fake sub", "error", err)
		return fmt.Errorf("failed to set fake sub: %w", err)
	}
	return nil
}

// GetFakeSub retrieves the gate configuration for a bot. Returns nil, nil
// if the bot has none.
func (s *sqlxStore) GetFakeSub(ctx context.Context, botToken string) (*FakeSub, error) {
	var fs FakeSub
	err := s.db.GetContext(ctx, &fs, `SELECT * FROM fake_subs WHERE bot_token = ?`, botToken)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting fake sub", "error", err)
		return nil, fmt.Errorf("failed to get fake sub: %w", err)
	}
	return &fs, nil
}

// ListEnabledFakeSubs retrieves the gate configurations that are currently
// enabled.
func (s *sqlxStore) ListEnabledFakeSubs(ctx context.Context) ([]FakeSub, error) {
	var subs []FakeSub
	if err := s.db.SelectContext(ctx, &subs, `SELECT * FROM fake_subs WHERE enabled = 1`); err != nil {
		s.logger.ErrorContext(ctx, "Error listing enabled fake subs", "error", err)
		return nil, fmt.Errorf("failed to list enabled fake subs: %w", err)
	}
	return subs, nil
}
