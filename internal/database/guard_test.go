package database_test

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestGuardKickCountDefaultsToZero(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	count, err := store.GetKickCount(context.Background(), "tok-g", 100, 1)
	if err != nil {
		t.Fatalf("GetKickCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("kick count for unknown key = %d, want 0", count)
	}
}

func TestIncrementKickReturnsPostIncrementValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	for want := int64(1); want <= 3; want++ {
		got, err := store.IncrementKick(ctx, "tok-g", 100, 1)
		if err != nil {
			t.Fatalf("IncrementKick failed: %v", err)
		}
		if got != want {
			t.Errorf("IncrementKick = %d, want %d", got, want)
		}
	}

	// Counters are scoped per admin per chat.
	got, err := store.IncrementKick(ctx, "tok-g", 100, 2)
	if err != nil {
		t.Fatalf("IncrementKick for second admin failed: %v", err)
	}
	if got != 1 {
		t.Errorf("second admin's first increment = %d, want 1", got)
	}
}

func TestIncrementKickConcurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	const increments = 50
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < increments; i++ {
		g.Go(func() error {
			_, err := store.IncrementKick(gCtx, "tok-g", 200, 7)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent IncrementKick failed: %v", err)
	}

	count, err := store.GetKickCount(ctx, "tok-g", 200, 7)
	if err != nil {
		t.Fatalf("GetKickCount failed: %v", err)
	}
	if count != increments {
		t.Errorf("final kick count = %d, want %d (lost updates)", count, increments)
	}
}

func TestResetKicks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.IncrementKick(ctx, "tok-g", 300, 4); err != nil {
		t.Fatalf("IncrementKick failed: %v", err)
	}
	if err := store.ResetKicks(ctx, "tok-g", 300, 4); err != nil {
		t.Fatalf("ResetKicks failed: %v", err)
	}

	count, err := store.GetKickCount(ctx, "tok-g", 300, 4)
	if err != nil {
		t.Fatalf("GetKickCount after reset failed: %v", err)
	}
	if count != 0 {
		t.Errorf("kick count after reset = %d, want 0", count)
	}
}

func TestGuardSettingsDefaultLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	settings, err := store.GetGuardSettings(ctx, "tok-g", 400)
	if err != nil {
		t.Fatalf("GetGuardSettings failed: %v", err)
	}
	if settings.KickLimit != 5 {
		t.Errorf("default kick_limit = %d, want 5", settings.KickLimit)
	}

	if err := store.SetKickLimit(ctx, "tok-g", 400, 9); err != nil {
		t.Fatalf("SetKickLimit failed: %v", err)
	}
	settings, err = store.GetGuardSettings(ctx, "tok-g", 400)
	if err != nil {
		t.Fatalf("GetGuardSettings after set failed: %v", err)
	}
	if settings.KickLimit != 9 {
		t.Errorf("kick_limit = %d, want 9", settings.KickLimit)
	}

	// Re-setting replaces the limit.
	if err := store.SetKickLimit(ctx, "tok-g", 400, 3); err != nil {
		t.Fatalf("second SetKickLimit failed: %v", err)
	}
	settings, err = store.GetGuardSettings(ctx, "tok-g", 400)
	if err != nil {
		t.Fatalf("GetGuardSettings after replace failed: %v", err)
	}
	if settings.KickLimit != 3 {
		t.Errorf("kick_limit after replace = %d, want 3", settings.KickLimit)
	}
}
