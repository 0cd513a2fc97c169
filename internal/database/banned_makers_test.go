package database_test

import (
	"context"
	"testing"
)

func TestMakerBanLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	banned, err := store.IsMakerBanned(ctx, 21)
	if err != nil {
		t.Fatalf("IsMakerBanned failed: %v", err)
	}
	if banned {
		t.Error("unknown user reported as banned maker")
	}

	if err := store.BanMaker(ctx, 21, 1); err != nil {
		t.Fatalf("BanMaker failed: %v", err)
	}
	// Upsert semantics: banning again refreshes the metadata without error.
	if err := store.BanMaker(ctx, 21, 2); err != nil {
		t.Fatalf("second BanMaker failed: %v", err)
	}
	if err := store.BanMaker(ctx, 22, 0); err != nil {
		t.Fatalf("BanMaker without banned_by failed: %v", err)
	}

	banned, err = store.IsMakerBanned(ctx, 21)
	if err != nil {
		t.Fatalf("IsMakerBanned after ban failed: %v", err)
	}
	if !banned {
		t.Error("banned maker not reported as banned")
	}

	ids, err := store.ListBannedMakerIDs(ctx)
	if err != nil {
		t.Fatalf("ListBannedMakerIDs failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("len(banned makers) = %d, want 2", len(ids))
	}

	lifted, err := store.UnbanMaker(ctx, 21)
	if err != nil {
		t.Fatalf("UnbanMaker failed: %v", err)
	}
	if !lifted {
		t.Error("UnbanMaker reported no row affected")
	}

	lifted, err = store.UnbanMaker(ctx, 21)
	if err != nil {
		t.Fatalf("second UnbanMaker failed: %v", err)
	}
	if lifted {
		t.Error("UnbanMaker reported a row affected for lifted ban")
	}
}
