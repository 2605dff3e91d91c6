package access

import (
	"context"
	"errors"
	"testing"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/fdg312/nafld-hub/internal/storage/memory"
	"github.com/fdg312/nafld-hub/internal/userctx"
	"github.com/google/uuid"
)

func TestProfile(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	profiles, _ := store.ListProfiles(ctx)
	ownerID := profiles[0].ID

	if _, err := Profile(ctx, store, ownerID); err != nil {
		t.Fatalf("default user should own the seeded profile: %v", err)
	}

	other := userctx.WithUserID(ctx, "someone-else")
	if _, err := Profile(other, store, ownerID); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("foreign profile err = %v, want ErrProfileNotFound", err)
	}

	if _, err := Profile(ctx, store, uuid.New()); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("missing profile err = %v", err)
	}
	if _, err := Profile(ctx, store, uuid.Nil); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("nil id err = %v", err)
	}

	guest := &storage.Profile{OwnerUserID: "someone-else", Type: "guest", Name: "G"}
	_ = store.CreateProfile(ctx, guest)
	if _, err := Profile(other, store, guest.ID); err != nil {
		t.Errorf("owner should see own guest profile: %v", err)
	}
}
