package database_test

import (
	"context"
	"testing"

	"botfactory/internal/database"
)

func TestCreateBotDuplicateTokenLeavesRowUnmodified(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.CreateBot(ctx, "tok-1", "first_bot", database.BotTypeAI, 10, "")
	if err != nil {
		t.Fatalf("CreateBot failed: %v", err)
	}
	if !created {
		t.Fatal("first CreateBot returned false")
	}

	created, err = store.CreateBot(ctx, "tok-1", "second_bot", database.BotTypeGuard, 20, "@chan")
	if err != nil {
		t.Fatalf("duplicate CreateBot returned error: %v", err)
	}
	if created {
		t.Fatal("duplicate CreateBot returned true")
	}

	bot, err := store.GetBotByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetBotByToken failed: %v", err)
	}
	if bot == nil {
		t.Fatal("bot not found after duplicate create")
	}
	if bot.BotUsername != "first_bot" || bot.BotType != database.BotTypeAI || bot.OwnerID != 10 {
		t.Errorf("existing row was modified by duplicate create: %+v", bot)
	}
	if !bot.Active {
		t.Error("new bot should default to active")
	}
}

func TestCreateBotRejectsUnknownType(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	created, err := store.CreateBot(context.Background(), "tok-x", "x_bot", database.BotType("weather"), 1, "")
	if err == nil {
		t.Fatal("expected error for unknown bot type")
	}
	if created {
		t.Error("CreateBot reported success for unknown bot type")
	}
}

func TestGetBotByUsername(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.CreateBot(ctx, "tok-2", "lookup_bot", database.BotTypeAdhkar, 5, ""); err != nil {
		t.Fatalf("CreateBot failed: %v", err)
	}

	bot, err := store.GetBotByUsername(ctx, "lookup_bot")
	if err != nil {
		t.Fatalf("GetBotByUsername failed: %v", err)
	}
	if bot == nil || bot.Token != "tok-2" {
		t.Errorf("GetBotByUsername = %+v, want token tok-2", bot)
	}

	missing, err := store.GetBotByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetBotByUsername for unknown name failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown username, got %+v", missing)
	}
}

func TestListBotsByType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	seeds := []struct {
		token string
		kind  database.BotType
	}{
		{"t-ai-1", database.BotTypeAI},
		{"t-ai-2", database.BotTypeAI},
		{"t-guard", database.BotTypeGuard},
	}
	for _, seed := range seeds {
		if _, err := store.CreateBot(ctx, seed.token, "bot_"+seed.token, seed.kind, 1, ""); err != nil {
			t.Fatalf("CreateBot(%s) failed: %v", seed.token, err)
		}
	}

	all, err := store.ListBots(ctx)
	if err != nil {
		t.Fatalf("ListBots failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(ListBots) = %d, want 3", len(all))
	}

	aiBots, err := store.ListBotsByType(ctx, database.BotTypeAI)
	if err != nil {
		t.Fatalf("ListBotsByType failed: %v", err)
	}
	if len(aiBots) != 2 {
		t.Errorf("len(ai bots) = %d, want 2", len(aiBots))
	}
}

func TestToggleBotActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.CreateBot(ctx, "tok-t", "toggle_bot", database.BotTypeAI, 1, ""); err != nil {
		t.Fatalf("CreateBot failed: %v", err)
	}

	affected, err := store.ToggleBotActive(ctx, "tok-t")
	if err != nil {
		t.Fatalf("ToggleBotActive failed: %v", err)
	}
	if !affected {
		t.Fatal("ToggleBotActive reported no row affected")
	}

	bot, err := store.GetBotByToken(ctx, "tok-t")
	if err != nil {
		t.Fatalf("GetBotByToken failed: %v", err)
	}
	if bot.Active {
		t.Error("bot still active after toggle")
	}

	affected, err = store.ToggleBotActive(ctx, "no-such-token")
	if err != nil {
		t.Fatalf("ToggleBotActive for unknown token failed: %v", err)
	}
	if affected {
		t.Error("ToggleBotActive reported a row affected for unknown token")
	}
}

func TestSetRequiredChannelAndUsersCount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.CreateBot(ctx, "tok-u", "update_bot", database.BotTypeAI, 1, ""); err != nil {
		t.Fatalf("CreateBot failed: %v", err)
	}

	if err := store.SetRequiredChannel(ctx, "tok-u", "@mychannel"); err != nil {
		t.Fatalf("SetRequiredChannel failed: %v", err)
	}
	if err := store.SetUsersCount(ctx, "tok-u", 99); err != nil {
		t.Fatalf("SetUsersCount failed: %v", err)
	}

	bot, err := store.GetBotByToken(ctx, "tok-u")
	if err != nil {
		t.Fatalf("GetBotByToken failed: %v", err)
	}
	if !bot.RequiredChannel.Valid || bot.RequiredChannel.String != "@mychannel" {
		t.Errorf("required_channel = %+v, want @mychannel", bot.RequiredChannel)
	}
	if bot.UsersCount != 99 {
		t.Errorf("users_count = %d, want 99", bot.UsersCount)
	}
}

func TestDeleteBotCascades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	const token = "tok-del"
	if _, err := store.CreateBot(ctx, token, "doomed_bot", database.BotTypeAI, 1, ""); err != nil {
		t.Fatalf("CreateBot failed: %v", err)
	}
	for i := int64(1); i <= 3; i++ {
		if err := store.AddBotUser(ctx, token, i, "u", ""); err != nil {
			t.Fatalf("AddBotUser(%d) failed: %v", i, err)
		}
	}
	if err := store.SetFakeSub(ctx, token, true, "subscribe first"); err != nil {
		t.Fatalf("SetFakeSub failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := store.AppendMemory(ctx, token, 1, database.RoleUser, "msg"); err != nil {
			t.Fatalf("AppendMemory failed: %v", err)
		}
	}

	if err := store.DeleteBot(ctx, token); err != nil {
		t.Fatalf("DeleteBot failed: %v", err)
	}

	if bot, err := store.GetBotByToken(ctx, token); err != nil || bot != nil {
		t.Errorf("bot row survived delete: bot=%+v err=%v", bot, err)
	}
	if users, err := store.ListBotUsers(ctx, token); err != nil || len(users) != 0 {
		t.Errorf("bot_users rows survived delete: n=%d err=%v", len(users), err)
	}
	if fs, err := store.GetFakeSub(ctx, token); err != nil || fs != nil {
		t.Errorf("fake_subs row survived delete: fs=%+v err=%v", fs, err)
	}
	if turns, err := store.ReadMemory(ctx, token, 1, 20); err != nil || len(turns) != 0 {
		t.Errorf("memory_entries rows survived delete: n=%d err=%v", len(turns), err)
	}
}
