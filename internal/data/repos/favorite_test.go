package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/curalink/curalink-backend/internal/data/repos/testutil"
	"github.com/curalink/curalink-backend/internal/domain"
)

func TestFavoriteRepoIdempotency(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewFavoriteRepo(gdb, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "fav@curalink.test", domain.RolePatient)

	fav := &domain.Favorite{ID: uuid.New(), UserID: u.ID, Kind: domain.FavoriteTrials, ItemID: "NCT01234567"}
	if err := repo.Insert(ctx, tx, fav); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	again := &domain.Favorite{ID: uuid.New(), UserID: u.ID, Kind: domain.FavoriteTrials, ItemID: "NCT01234567"}
	if err := repo.Insert(ctx, tx, again); err != nil {
		t.Fatalf("Insert(duplicate): %v", err)
	}

	rows, err := repo.ListByUser(ctx, tx, u.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}

	if err := repo.Delete(ctx, tx, u.ID, domain.FavoriteTrials, "NCT01234567"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Deleting the already-deleted row is a no-op.
	if err := repo.Delete(ctx, tx, u.ID, domain.FavoriteTrials, "NCT01234567"); err != nil {
		t.Fatalf("Delete(absent): %v", err)
	}
	if rows, err := repo.ListByUser(ctx, tx, u.ID); err != nil || len(rows) != 0 {
		t.Fatalf("ListByUser after delete: err=%v len=%d", err, len(rows))
	}
}
