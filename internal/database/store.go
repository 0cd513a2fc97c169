package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	// memoryWindow is the maximum number of memory entries retained per
	// (bot_token, user_id) pair. Every append prunes beyond this window.
	memoryWindow = 20

	// defaultKickLimit applies to chats with no guard_settings row.
	defaultKickLimit = 5

	// defaultMemoryLimit is used by ReadMemory when the caller passes a
	// non-positive limit.
	defaultMemoryLimit = 20
)

// timeLayout is a fixed-width ISO-8601 UTC layout. Fixed width keeps the
// stored strings lexicographically sortable.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Store defines the data access operations owned by the state store. Every
// method is a complete, self-contained transaction against durable state;
// no transaction stays open across calls.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RunMaintenance performs database maintenance (VACUUM).
	RunMaintenance(ctx context.Context) error

	// Members.
	UpsertMember(ctx context.Context, userID int64, firstName, username string) error
	GetMember(ctx context.Context, userID int64) (*Member, error)
	ListMembers(ctx context.Context) ([]Member, error)
	IncrementBotsCreated(ctx context.Context, userID int64) error

	// Bots. CreateBot reports false on a duplicate token without modifying
	// the existing row; err is non-nil only for storage failures.
	CreateBot(ctx context.Context, token, botUsername string, botType BotType, ownerID int64, requiredChannel string) (bool, error)
	GetBotByToken(ctx context.Context, token string) (*Bot, error)
	GetBotByUsername(ctx context.Context, username string) (*Bot, error)
	ListBots(ctx context.Context) ([]Bot, error)
	ListBotsByType(ctx context.Context, botType BotType) ([]Bot, error)
	ToggleBotActive(ctx context.Context, token string) (bool, error)
	SetRequiredChannel(ctx context.Context, token, channel string) error
	SetUsersCount(ctx context.Context, token string, count int64) error
	DeleteBot(ctx context.Context, token string) error

	// Bot users. AddBotUser is idempotent and recomputes the owning bot's
	// users_count in the same transaction.
	AddBotUser(ctx context.Context, botToken string, userID int64, firstName, username string) error
	ListBotUsers(ctx context.Context, botToken string) ([]BotUser, error)
	BanBotUser(ctx context.Context, botToken string, userID int64) error
	UnbanBotUser(ctx context.Context, botToken string, userID int64) error
	IsBotUserBanned(ctx context.Context, botToken string, userID int64) (bool, error)

	// Developers.
	UpsertDeveloper(ctx context.Context, userID int64, username string, addedBy int64) error
	RemoveDeveloper(ctx context.Context, userID int64) (bool, error)
	ListDevelopers(ctx context.Context) ([]Developer, error)
	IsDeveloper(ctx context.Context, userID int64) (bool, error)

	// Banned makers.
	BanMaker(ctx context.Context, userID, bannedBy int64) error
	UnbanMaker(ctx context.Context, userID int64) (bool, error)
	IsMakerBanned(ctx context.Context, userID int64) (bool, error)
	ListBannedMakerIDs(ctx context.Context) ([]int64, error)

	// Fake subscription gates.
	SetFakeSub(ctx context.Context, botToken string, enabled bool, message string) error
	GetFakeSub(ctx context.Context, botToken string) (*FakeSub, error)
	ListEnabledFakeSubs(ctx context.Context) ([]FakeSub, error)

	// Conversational memory.
	AppendMemory(ctx context.Context, botToken string, userID int64, role MemoryRole, content string) error
	ReadMemory(ctx context.Context, botToken string, userID int64, limit int) ([]MemoryTurn, error)
	ClearMemory(ctx context.Context, botToken string, userID int64) error
	ClearBotMemory(ctx context.Context, botToken string) error

	// Adhkar schedules.
	SetAdhkarSchedule(ctx context.Context, botToken string, chatID int64, intervalMinutes int64, endTime string) error
	ListAdhkarSchedules(ctx context.Context, botToken string) ([]AdhkarSchedule, error)
	RemoveAdhkarSchedule(ctx context.Context, botToken string, chatID int64) error

	// Guard moderation counters and settings.
	GetKickCount(ctx context.Context, botToken string, chatID, adminID int64) (int64, error)
	IncrementKick(ctx context.Context, botToken string, chatID, adminID int64) (int64, error)
	ResetKicks(ctx context.Context, botToken string, chatID, adminID int64) error
	GetGuardSettings(ctx context.Context, botToken string, chatID int64) (GuardSettings, error)
	SetKickLimit(ctx context.Context, botToken string, chatID, limit int64) error

	// Aggregation and bulk reset.
	GetStatistics(ctx context.Context) (*Statistics, error)
	ClearAll(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store backed by sqlx. The logger should be the
// error channel of the process logging context; unexpected storage failures
// are reported through it before being returned.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// now returns the store-assigned timestamp for the current instant.
func (s *sqlxStore) now() string {
	return time.Now().UTC().Format(timeLayout)
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on every other path. Multi-statement operations use it so a crash
// between statements cannot leave counters or retention windows
// inconsistent with the underlying rows.
func (s *sqlxStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil
	return nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt64 maps zero to SQL NULL. Platform-assigned IDs are never zero.
func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

// RunMaintenance executes a VACUUM on the database. SQLite requires VACUUM
// to run outside a transaction.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
