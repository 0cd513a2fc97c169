package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AddBotUser records an end-user of a hosted bot. Adding an existing
// (bot_token, user_id) pair is a silent no-op that leaves the row untouched.
// After the insert attempt the non-banned user count for the bot is
// recomputed and written into bots.users_count, all in one transaction, so
// the denormalized counter matches the rows when the call returns.
func (s *sqlxStore) AddBotUser(ctx context.Context, botToken string, userID int64, firstName, username string) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		insert := `
            INSERT INTO bot_users (bot_token, user_id, first_name, username, joined_at)
            VALUES (?, ?, ?, ?, ?)
            ON CONFLICT (bot_token, user_id) DO NOTHING;
        `
		if _, err := tx.ExecContext(ctx, insert, botToken, userID, firstName, nullString(username), s.now()); err != nil {
			return fmt.Errorf("failed to insert bot user: %w", err)
		}

		var count int64
		if err := tx.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM bot_users WHERE bot_token = ? AND banned = 0`, botToken); err != nil {
			return fmt.Errorf("failed to count bot users: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE bots SET users_count = ? WHERE token = ?`, count, botToken); err != nil {
			return fmt.Errorf("failed to update users count: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error adding bot user", "user_id", userID, "error", err)
		return fmt.Errorf("failed to add user %d to bot: %w", userID, err)
	}
	return nil
}

// ListBotUsers retrieves all users of a hosted bot, banned included.
func (s *sqlxStore) ListBotUsers(ctx context.Context, botToken string) ([]BotUser, error) {
	var users []BotUser
	if err := s.db.SelectContext(ctx, &users, `SELECT * FROM bot_users WHERE bot_token = ?`, botToken); err != nil {
		s.logger.ErrorContext(ctx, "Error listing bot users", "error", err)
		return nil, fmt.Errorf("failed to list bot users: %w", err)
	}
	return users, nil
}

// BanBotUser sets the banned flag for a bot's user. It does not touch the
// bot's users_count; only AddBotUser recomputes it.
func (s *sqlxStore) BanBotUser(ctx context.Context, botToken string, userID int64) error {
	return s.setBotUserBanned(ctx, botToken, userID, true)
}

// UnbanBotUser clears the banned flag for a bot's user. It does not touch
// the bot's users_count; only AddBotUser recomputes it.
func (s *sqlxStore) UnbanBotUser(ctx context.Context, botToken string, userID int64) error {
	return s.setBotUserBanned(ctx, botToken, userID, false)
}

func (s *sqlxStore) setBotUserBanned(ctx context.Context, botToken string, userID int64, banned bool) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE bot_users SET banned = ? WHERE bot_token = ? AND user_id = ?`, banned, botToken, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error updating bot user ban flag", "user_id", userID, "banned", banned, "error", err)
		return fmt.Errorf("failed to update ban flag for user %d: %w", userID, err)
	}
	return nil
}

// IsBotUserBanned reports whether the user is banned from the bot. An
// unknown (bot_token, user_id) pair is not banned.
func (s *sqlxStore) IsBotUserBanned(ctx context.Context, botToken string, userID int64) (bool, error) {
	var banned bool
	err := s.db.GetContext(ctx, &banned,
		`SELECT banned FROM bot_users WHERE bot_token = ? AND user_id = ?`, botToken, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error checking bot user ban flag", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to check ban flag for user %d: %w", userID, err)
	}
	return banned, nil
}
