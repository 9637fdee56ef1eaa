package repos

import (
	"context"
	"testing"

	"github.com/curalink/curalink-backend/internal/data/repos/testutil"
	"github.com/curalink/curalink-backend/internal/domain"
)

func TestMessageRepoThreadAndReadState(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewMessageRepo(gdb, testutil.Logger(t))

	a := testutil.SeedUser(t, ctx, tx, "a@curalink.test", domain.RoleResearcher)
	b := testutil.SeedUser(t, ctx, tx, "b@curalink.test", domain.RoleResearcher)
	other := testutil.SeedUser(t, ctx, tx, "c@curalink.test", domain.RoleResearcher)

	testutil.SeedMessage(t, ctx, tx, a.ID, b.ID, "one")
	testutil.SeedMessage(t, ctx, tx, b.ID, a.ID, "two")
	testutil.SeedMessage(t, ctx, tx, a.ID, b.ID, "three")
	testutil.SeedMessage(t, ctx, tx, a.ID, other.ID, "unrelated")

	thread, err := repo.ListBetween(ctx, tx, a.ID, b.ID)
	if err != nil || len(thread) != 3 {
		t.Fatalf("ListBetween: err=%v len=%d", err, len(thread))
	}
	if thread[0].Body != "one" || thread[2].Body != "three" {
		t.Fatalf("thread order: got %q..%q", thread[0].Body, thread[2].Body)
	}

	latest, err := repo.LatestBetween(ctx, tx, b.ID, a.ID)
	if err != nil || latest == nil || latest.Body != "three" {
		t.Fatalf("LatestBetween: got=%v err=%v", latest, err)
	}

	if n, err := repo.CountUnreadFrom(ctx, tx, a.ID, b.ID); err != nil || n != 2 {
		t.Fatalf("CountUnreadFrom: n=%d err=%v", n, err)
	}

	if n, err := repo.MarkReadFrom(ctx, tx, a.ID, b.ID); err != nil || n != 2 {
		t.Fatalf("MarkReadFrom: n=%d err=%v", n, err)
	}
	// Second pass is a no-op.
	if n, err := repo.MarkReadFrom(ctx, tx, a.ID, b.ID); err != nil || n != 0 {
		t.Fatalf("MarkReadFrom(repeat): n=%d err=%v", n, err)
	}
	if n, err := repo.CountUnreadFrom(ctx, tx, a.ID, b.ID); err != nil || n != 0 {
		t.Fatalf("CountUnreadFrom after mark: n=%d err=%v", n, err)
	}

	// The other direction is untouched.
	if n, err := repo.CountUnreadFrom(ctx, tx, b.ID, a.ID); err != nil || n != 1 {
		t.Fatalf("CountUnreadFrom(b->a): n=%d err=%v", n, err)
	}

	if none, err := repo.LatestBetween(ctx, tx, b.ID, other.ID); err != nil || none != nil {
		t.Fatalf("LatestBetween(empty pair): got=%v err=%v", none, err)
	}
}
