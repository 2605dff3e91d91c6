// Package access checks that a profile belongs to the caller.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/fdg312/nafld-hub/internal/userctx"
	"github.com/google/uuid"
)

// ErrProfileNotFound covers both missing and foreign profiles so the API does
// not reveal which profile IDs exist.
var ErrProfileNotFound = errors.New("profile not found")

type ProfileGetter interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
}

// Profile loads the profile and verifies the caller owns it.
func Profile(ctx context.Context, profiles ProfileGetter, profileID uuid.UUID) (*storage.Profile, error) {
	if profileID == uuid.Nil {
		return nil, ErrProfileNotFound
	}

	profile, err := profiles.GetProfile(ctx, profileID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && profile == nil) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if profile.OwnerUserID != userctx.UserIDOrDefault(ctx) {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}
