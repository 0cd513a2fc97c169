package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// GetKickCount returns the kick counter for an admin in a chat, 0 if no
// counter exists.
func (s *sqlxStore) GetKickCount(ctx context.Context, botToken string, chatID, adminID int64) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		`SELECT kick_count FROM guard_counters WHERE bot_token = ? AND chat_id = ? AND admin_id = ?`,
		botToken, chatID, adminID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting kick count", "chat_id", chatID, "admin_id", adminID, "error", err)
		return 0, fmt.Errorf("failed to get kick count for admin %d: %w", adminID, err)
	}
	return count, nil
}

// IncrementKick adds one to the admin's kick counter, creating it at 1 if
// absent, and returns the post-increment value. The upsert-increment is a
// single conditional statement and the read happens in the same
// transaction, so concurrent increments for one key never lose an update.
func (s *sqlxStore) IncrementKick(ctx context.Context, botToken string, chatID, adminID int64) (int64, error) {
	var count int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		upsert := `
            INSERT INTO guard_counters (bot_token, chat_id, admin_id, kick_count)
            VALUES (?, ?, ?, 1)
            ON CONFLICT (bot_token, chat_id, admin_id)
            DO UPDATE SET kick_count = kick_count + 1;
        `
		if _, err := tx.ExecContext(ctx, upsert, botToken, chatID, adminID); err != nil {
			return fmt.Errorf("failed to upsert kick counter: %w", err)
		}

		if err := tx.GetContext(ctx, &count,
			`SELECT kick_count FROM guard_counters WHERE bot_token = ? AND chat_id = ? AND admin_id = ?`,
			botToken, chatID, adminID); err != nil {
			return fmt.Errorf("failed to read kick counter: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error incrementing kick count", "chat_id", chatID, "admin_id", adminID, "error", err)
		return 0, fmt.Errorf("failed to increment kick count for admin %d: %w", adminID, err)
	}
	return count, nil
}

// ResetKicks deletes the admin's kick counter; the next read sees 0.
func (s *sqlxStore) ResetKicks(ctx context.Context, botToken string, chatID, adminID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM guard_counters WHERE bot_token = ? AND chat_id = ? AND admin_id = ?`,
		botToken, chatID, adminID); err != nil {
		s.logger.ErrorContext(ctx, "Error resetting kick count", "chat_id", chatID, "admin_id", adminID, "error", err)
		return fmt.Errorf("failed to reset kicks for admin %d: %w", adminID, err)
	}
	return nil
}

// GetGuardSettings returns the moderation settings for a chat. A chat with
// no stored row gets the default kick limit.
func (s *sqlxStore) GetGuardSettings(ctx context.Context, botToken string, chatID int64) (GuardSettings, error) {
	var settings GuardSettings
	err := s.db.GetContext(ctx, &settings,
		`SELECT bot_token, chat_id, kick_limit FROM guard_settings WHERE bot_token = ? AND chat_id = ?`,
		botToken, chatID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return GuardSettings{BotToken: botToken, ChatID: chatID, KickLimit: defaultKickLimit}, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting guard settings", "chat_id", chatID, "error", err)
		return GuardSettings{}, fmt.Errorf("failed to get guard settings for chat %d: %w", chatID, err)
	}
	return settings, nil
}

// SetKickLimit creates or replaces the kick limit for a chat.
func (s *sqlxStore) SetKickLimit(ctx context.Context, botToken string, chatID, limit int64) error {
	query := `
        INSERT INTO guard_settings (bot_token, chat_id, kick_limit)
        VALUES (?, ?, ?)
        ON CONFLICT (bot_token, chat_id) DO UPDATE SET kick_limit = excluded.kick_limit;
    `

	if _, err := s.db.ExecContext(ctx, query, botToken, chatID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error setting kick limit", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to set kick limit for chat %d: %w", chatID, err)
	}
	return nil
}
