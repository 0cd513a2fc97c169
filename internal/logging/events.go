package logging

import "fmt"

// UserAction records an action taken by a factory user on the main channel.
func (c *Channels) UserAction(userID int64, action, details string) {
	attrs := []any{"user_id", userID, "action", action}
	if details != "" {
		attrs = append(attrs, "details", details)
	}
	c.Main.Info("User action", attrs...)
}

// BotCreated records the registration of a new hosted bot.
func (c *Channels) BotCreated(botType, botUsername string, ownerID int64) {
	c.Main.Info("New bot created",
		"type", botType,
		"bot", "@"+botUsername,
		"owner_id", ownerID)
}

// Broadcast records the outcome of a broadcast. Pass botUsername when the
// broadcast originated from a hosted bot rather than the factory itself.
func (c *Channels) Broadcast(source string, success, failed int, botUsername string) {
	attrs := []any{"success", success, "failed", failed}
	if botUsername != "" {
		attrs = append(attrs, "bot", "@"+botUsername)
	} else {
		attrs = append(attrs, "source", source)
	}
	c.Main.Info("Broadcast finished", attrs...)
}

// Startup records factory startup on the main channel.
func (c *Channels) Startup() {
	c.Main.Info("Bot factory started")
}

// ChildStartup records a hosted bot coming online.
func (c *Channels) ChildStartup(botUsername, botType string) {
	c.ForBot(botUsername).Info("Started", "type", botType)
}

// ChildError records a hosted bot failure on the child channel.
func (c *Channels) ChildError(botUsername string, err error) {
	c.ForBot(botUsername).Error("Bot error", "error", err)
}

// Failure records a failure with its originating component, error kind, and
// free-text context. It goes to the error channel and is echoed on the main
// channel so the operational log stays self-contained.
func (c *Channels) Failure(source string, err error, context string) {
	attrs := []any{
		"source", source,
		"kind", fmt.Sprintf("%T", err),
		"error", err,
	}
	if context != "" {
		attrs = append(attrs, "context", context)
	}
	c.Error.Error("Failure", attrs...)
	c.Main.Error("Failure", attrs...)
}
