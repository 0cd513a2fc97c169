package database

import (
	"context"
	"fmt"
)

// SetAdhkarSchedule creates or replaces the recurring-message schedule for a
// chat. Pass endTime as "" for an open-ended schedule.
func (s *sqlxStore) SetAdhkarSchedule(ctx context.Context, botToken string, chatID int64, intervalMinutes int64, endTime string) error {
	query := `
        INSERT INTO adhkar_schedules (bot_token, chat_id, interval_minutes, end_time, created_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (bot_token, chat_id) DO UPDATE SET
            interval_minutes = excluded.interval_minutes,
            end_time         = excluded.end_time,
            created_at       = excluded.created_at;
    `

	if _, err := s.db.ExecContext(ctx, query, botToken, chatID, intervalMinutes, nullString(endTime), s.now()); err != nil {
		s.logger.ErrorContext(ctx, "Error setting adhkar schedule", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to set adhkar schedule for chat %d: %w", chatID, err)
	}
	return nil
}

// ListAdhkarSchedules retrieves schedules for one bot, or for every bot when
// botToken is empty.
func (s *sqlxStore) ListAdhkarSchedules(ctx context.Context, botToken string) ([]AdhkarSchedule, error) {
	var (
		schedules []AdhkarSchedule
		err       error
	)
	if botToken != "" {
		err = s.db.SelectContext(ctx, &schedules, `SELECT * FROM adhkar_schedules WHERE bot_token = ?`, botToken)
	} else {
		err = s.db.SelectContext(ctx, &schedules, `SELECT * FROM adhkar_schedules`)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing adhkar schedules", "error", err)
		return nil, fmt.Errorf("failed to list adhkar schedules: %w", err)
	}
	return schedules, nil
}

// RemoveAdhkarSchedule deletes the schedule for a chat.
func (s *sqlxStore) RemoveAdhkarSchedule(ctx context.Context, botToken string, chatID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM adhkar_schedules WHERE bot_token = ? AND chat_id = ?`, botToken, chatID); err != nil {
		s.logger.ErrorContext(ctx, "Error removing adhkar schedule", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to remove adhkar schedule for chat %d: %w", chatID, err)
	}
	return nil
}
