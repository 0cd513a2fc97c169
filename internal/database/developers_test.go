package database_test

import (
	"context"
	"testing"
)

func TestDeveloperRoleLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	is, err := store.IsDeveloper(ctx, 11)
	if err != nil {
		t.Fatalf("IsDeveloper failed: %v", err)
	}
	if is {
		t.Error("unknown user reported as developer")
	}

	if err := store.UpsertDeveloper(ctx, 11, "dev_one", 1); err != nil {
		t.Fatalf("UpsertDeveloper failed: %v", err)
	}
	// Re-adding replaces the metadata.
	if err := store.UpsertDeveloper(ctx, 11, "dev_one_renamed", 2); err != nil {
		t.Fatalf("second UpsertDeveloper failed: %v", err)
	}

	devs, err := store.ListDevelopers(ctx)
	if err != nil {
		t.Fatalf("ListDevelopers failed: %v", err)
	}
	if len(devs) != 1 {
		t.Fatalf("len(developers) = %d, want 1", len(devs))
	}
	if !devs[0].Username.Valid || devs[0].Username.String != "dev_one_renamed" {
		t.Errorf("username = %+v, want dev_one_renamed", devs[0].Username)
	}
	if !devs[0].AddedBy.Valid || devs[0].AddedBy.Int64 != 2 {
		t.Errorf("added_by = %+v, want 2", devs[0].AddedBy)
	}

	is, err = store.IsDeveloper(ctx, 11)
	if err != nil {
		t.Fatalf("IsDeveloper after upsert failed: %v", err)
	}
	if !is {
		t.Error("added user not reported as developer")
	}

	removed, err := store.RemoveDeveloper(ctx, 11)
	if err != nil {
		t.Fatalf("RemoveDeveloper failed: %v", err)
	}
	if !removed {
		t.Error("RemoveDeveloper reported no row affected")
	}

	removed, err = store.RemoveDeveloper(ctx, 11)
	if err != nil {
		t.Fatalf("second RemoveDeveloper failed: %v", err)
	}
	if removed {
		t.Error("RemoveDeveloper reported a row affected for missing developer")
	}
}
