package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// GetStatistics computes a fresh summary across all entities. Each count is
// its own query; no snapshot consistency is promised.
func (s *sqlxStore) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}

	counts := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM members`, &stats.TotalMembers},
		{`SELECT COUNT(*) FROM bots`, &stats.TotalBots},
		{`SELECT COUNT(*) FROM bots WHERE active = 1`, &stats.ActiveBots},
		{`SELECT COUNT(*) FROM bot_users`, &stats.TotalBotUsers},
		{`SELECT COUNT(*) FROM memory_entries`, &stats.TotalMemoryEntries},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dest, c.query); err != nil {
			s.logger.ErrorContext(ctx, "Error computing statistics", "query", c.query, "error", err)
			return nil, fmt.Errorf("failed to compute statistics: %w", err)
		}
	}

	var top struct {
		BotUsername string `db:"bot_username"`
		UsersCount  int64  `db:"users_count"`
	}
	err := s.db.GetContext(ctx, &top,
		`SELECT bot_username, users_count FROM bots ORDER BY users_count DESC LIMIT 1`)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No bots registered yet.
	case err != nil:
		s.logger.ErrorContext(ctx, "Error finding most active bot", "error", err)
		return nil, fmt.Errorf("failed to find most active bot: %w", err)
	default:
		stats.MostActiveBot = top.BotUsername
		stats.MostActiveUsers = top.UsersCount
	}

	return stats, nil
}

// ClearAll deletes every row from every entity table. Used only for full
// factory resets.
func (s *sqlxStore) ClearAll(ctx context.Context) error {
	tables := []string{
		"members", "bots", "bot_users", "developers", "banned_makers",
		"fake_subs", "memory_entries", "adhkar_schedules", "guard_counters", "guard_settings",
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error clearing all data", "error", err)
		return fmt.Errorf("failed to clear all data: %w", err)
	}

	s.logger.InfoContext(ctx, "All data cleared")
	return nil
}
