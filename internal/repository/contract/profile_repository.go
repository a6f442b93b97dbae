package contract

import (
	"context"

	"kdrama-recommender-be/internal/entity"
)

type ProfileRepository interface {
	// Load returns the stored profile, or a fresh default profile when
	// the user has never interacted before.
	Load(ctx context.Context, userID string) (*entity.UserProfile, error)
	Save(ctx context.Context, profile *entity.UserProfile) error
	// Update runs fn under the user's lock so concurrent interaction
	// events cannot lose writes. The mutated profile is persisted when
	// fn returns nil.
	Update(ctx context.Context, userID string, fn func(*entity.UserProfile) error) (*entity.UserProfile, error)
}
