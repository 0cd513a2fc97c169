package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CreateBot registers a new hosted bot. It reports false when the token is
// already registered, leaving the existing row unmodified. The boolean is
// the only success signal; a non-nil error implies false.
func (s *sqlxStore) CreateBot(ctx context.Context, token, botUsername string, botType BotType, ownerID int64, requiredChannel string) (bool, error) {
	if !botType.Valid() {
		return false, fmt.Errorf("invalid bot type %q", botType)
	}

	created := false
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, `SELECT 1 FROM bots WHERE token = ? LIMIT 1`, token)
		if err == nil {
			s.logger.WarnContext(ctx, "Bot already exists", "bot_username", botUsername)
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check bot token: %w", err)
		}

		query := `
            INSERT INTO bots (token, bot_username, bot_type, owner_id, created_at, required_channel)
            VALUES (?, ?, ?, ?, ?, ?);
        `
		if _, err := tx.ExecContext(ctx, query, token, botUsername, botType, ownerID, s.now(), nullString(requiredChannel)); err != nil {
			return fmt.Errorf("failed to insert bot: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating bot", "bot_username", botUsername, "owner_id", ownerID, "error", err)
		return false, fmt.Errorf("failed to create bot @%s: %w", botUsername, err)
	}
	return created, nil
}

// GetBotByToken retrieves a bot by token. Returns nil, nil if not found.
func (s *sqlxStore) GetBotByToken(ctx context.Context, token string) (*Bot, error) {
	return s.getBot(ctx, `SELECT * FROM bots WHERE token = ?`, token)
}

// GetBotByUsername retrieves a bot by its username. Returns nil, nil if not found.
func (s *sqlxStore) GetBotByUsername(ctx context.Context, username string) (*Bot, error) {
	return s.getBot(ctx, `SELECT * FROM bots WHERE bot_username = ?`, username)
}

func (s *sqlxStore) getBot(ctx context.Context, query string, arg any) (*Bot, error) {
	var bot Bot
	err := s.db.GetContext(ctx, &bot, query, arg)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting bot", "error", err)
		return nil, fmt.Errorf("failed to get bot: %w", err)
	}
	return &bot, nil
}

// ListBots retrieves all hosted bots.
func (s *sqlxStore) ListBots(ctx context.Context) ([]Bot, error) {
	var bots []Bot
	if err := s.db.SelectContext(ctx, &bots, `SELECT * FROM bots`); err != nil {
		s.logger.ErrorContext(ctx, "Error listing bots", "error", err)
		return nil, fmt.Errorf("failed to list bots: %w", err)
	}
	return bots, nil
}

// ListBotsByType retrieves all hosted bots of one kind.
func (s *sqlxStore) ListBotsByType(ctx context.Context, botType BotType) ([]Bot, error) {
	var bots []Bot
	if err := s.db.SelectContext(ctx, &bots, `SELECT * FROM bots WHERE bot_type = ?`, botType); err != nil {
		s.logger.ErrorContext(ctx, "Error listing bots by type", "bot_type", botType, "error", err)
		return nil, fmt.Errorf("failed to list bots of type %q: %w", botType, err)
	}
	return bots, nil
}

// ToggleBotActive flips the bot's active flag and reports whether a row was
// affected (false means the token is unknown).
func (s *sqlxStore) ToggleBotActive(ctx context.Context, token string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE bots SET active = NOT active WHERE token = ?`, token)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error toggling bot active flag", "error", err)
		return false, fmt.Errorf("failed to toggle bot active flag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// SetRequiredChannel updates the required subscription channel for a bot.
func (s *sqlxStore) SetRequiredChannel(ctx context.Context, token, channel string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE bots SET required_channel = ? WHERE token = ?`, nullString(channel), token); err != nil {
		s.logger.ErrorContext(ctx, "Error setting required channel", "error", err)
		return fmt.Errorf("failed to set required channel: %w", err)
	}
	return nil
}

// SetUsersCount overwrites the denormalized users_count field for a bot.
func (s *sqlxStore) SetUsersCount(ctx context.Context, token string, count int64) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE bots SET users_count = ? WHERE token = ?`, count, token); err != nil {
		s.logger.ErrorContext(ctx, "Error setting users count", "error", err)
		return fmt.Errorf("failed to set users count: %w", err)
	}
	return nil
}

// DeleteBot removes a bot and everything keyed by its token: bot users, the
// fake-sub gate, and memory entries. All deletes run in one transaction so a
// crash cannot strand orphaned rows.
func (s *sqlxStore) DeleteBot(ctx context.Context, token string) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, query := range []string{
			`DELETE FROM bots WHERE token = ?`,
			`DELETE FROM bot_users WHERE bot_token = ?`,
			`DELETE FROM fake_subs WHERE bot_token = ?`,
			`DELETE FROM memory_entries WHERE bot_token = ?`,
		} {
			if _, err := tx.ExecContext(ctx, query, token); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting bot", "error", err)
		return fmt.Errorf("failed to delete bot: %w", err)
	}
	return nil
}
