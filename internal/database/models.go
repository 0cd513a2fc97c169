package database

import (
	"database/sql"
)

// BotType identifies the kind of hosted bot a factory member created.
// It is a closed set so invalid kinds are rejected before they reach storage.
type BotType string

const (
	// BotTypeAI is a conversational bot backed by an AI assistant.
	BotTypeAI BotType = "ai"
	// BotTypeAdhkar is a bot that posts recurring scheduled messages.
	BotTypeAdhkar BotType = "adhkar"
	// BotTypeGuard is an anti-spam moderation bot.
	BotTypeGuard BotType = "guard"
)

// Valid reports whether t is a known bot type.
func (t BotType) Valid() bool {
	switch t {
	case BotTypeAI, BotTypeAdhkar, BotTypeGuard:
		return true
	}
	return false
}

// MemoryRole identifies which side of a conversation a memory entry belongs to.
type MemoryRole string

const (
	// RoleUser marks an entry written by the end-user.
	RoleUser MemoryRole = "user"
	// RoleAssistant marks an entry produced by the AI assistant.
	RoleAssistant MemoryRole = "assistant"
)

// Valid reports whether r is a known memory role.
func (r MemoryRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Member represents a platform user known to the factory bot.
// BotsCreated counts how many hosted bots the member has registered and
// survives identity upserts.
type Member struct {
	UserID      int64          `db:"user_id"`
	FirstName   string         `db:"first_name"`
	Username    sql.NullString `db:"username"`
	JoinedAt    string         `db:"joined_at"`
	BotsCreated int64          `db:"bots_created"`
}

// Bot represents a hosted child bot registered through the factory.
// UsersCount is denormalized from the bot_users table and reflects the
// number of non-banned users as of the last AddBotUser call.
type Bot struct {
	ID              int64          `db:"id"`
	Token           string         `db:"token"`
	BotUsername     string         `db:"bot_username"`
	BotType         BotType        `db:"bot_type"`
	OwnerID         int64          `db:"owner_id"`
	CreatedAt       string         `db:"created_at"`
	Active          bool           `db:"active"`
	RequiredChannel sql.NullString `db:"required_channel"`
	UsersCount      int64          `db:"users_count"`
}

// BotUser represents an end-user of one hosted bot.
type BotUser struct {
	ID        int64          `db:"id"`
	BotToken  string         `db:"bot_token"`
	UserID    int64          `db:"user_id"`
	FirstName string         `db:"first_name"`
	Username  sql.NullString `db:"username"`
	JoinedAt  string         `db:"joined_at"`
	Banned    bool           `db:"banned"`
}

// Developer represents a privileged operator of the factory itself.
type Developer struct {
	UserID   int64          `db:"user_id"`
	Username sql.NullString `db:"username"`
	AddedAt  string         `db:"added_at"`
	AddedBy  sql.NullInt64  `db:"added_by"`
}

// BannedMaker marks a user forbidden from creating new hosted bots.
// Presence of the row is the ban.
type BannedMaker struct {
	UserID   int64         `db:"user_id"`
	BannedAt string        `db:"banned_at"`
	BannedBy sql.NullInt64 `db:"banned_by"`
}

// FakeSub holds the channel-subscription gate configuration for one bot.
type FakeSub struct {
	BotToken  string         `db:"bot_token"`
	Enabled   bool           `db:"enabled"`
	Message   sql.NullString `db:"message"`
	UpdatedAt string         `db:"updated_at"`
}

// MemoryEntry is one stored turn of conversational context. Entries are
// append-only and retention per (bot_token, user_id) pair is bounded.
type MemoryEntry struct {
	ID        int64      `db:"id"`
	BotToken  string     `db:"bot_token"`
	UserID    int64      `db:"user_id"`
	Role      MemoryRole `db:"role"`
	Content   string     `db:"content"`
	CreatedAt string     `db:"created_at"`
}

// MemoryTurn is the role/content projection returned by ReadMemory,
// shaped for replay into an AI completion request.
type MemoryTurn struct {
	Role    MemoryRole `db:"role"`
	Content string     `db:"content"`
}

// AdhkarSchedule is a recurring-message job definition for one chat.
type AdhkarSchedule struct {
	ID              int64          `db:"id"`
	BotToken        string         `db:"bot_token"`
	ChatID          int64          `db:"chat_id"`
	IntervalMinutes int64          `db:"interval_minutes"`
	EndTime         sql.NullString `db:"end_time"`
	CreatedAt       string         `db:"created_at"`
}

// GuardSettings holds the per-chat moderation configuration. A missing row
// means the default kick limit applies.
type GuardSettings struct {
	BotToken  string `db:"bot_token"`
	ChatID    int64  `db:"chat_id"`
	KickLimit int64  `db:"kick_limit"`
}

// Statistics is a point-in-time summary across all entities. Each count is
// computed by its own query, so values may come from slightly different
// instants under concurrent writers.
type Statistics struct {
	TotalMembers       int64
	TotalBots          int64
	ActiveBots         int64
	TotalBotUsers      int64
	TotalMemoryEntries int64
	MostActiveBot      string
	MostActiveUsers    int64
}
